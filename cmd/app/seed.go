package main

import (
	"survey-assessment-backend/internal/model"
	"survey-assessment-backend/internal/survey"
	"survey-assessment-backend/utilities"
)

// seedRegistry builds the process registry from the built-in catalog.
func seedRegistry() *survey.Registry {
	registry := survey.NewRegistry()
	for _, in := range survey.DefaultCatalog() {
		registry.Register(in)
		utilities.Info("Registered survey %d %q (%s, %d questions)", in.ID, in.Name, in.Type, len(in.Questions))
	}
	return registry
}

// subscribeListeners attaches the background consumers of saved assessments.
func subscribeListeners(bus *utilities.EventBus, registry *survey.Registry) {
	bus.Subscribe(utilities.EventAssessmentSaved, func(data interface{}) {
		result, ok := data.(*model.AssessmentResult)
		if !ok {
			utilities.Warn("Unexpected %s payload %T", utilities.EventAssessmentSaved, data)
			return
		}
		in, ok := registry.Get(result.SurveyID)
		if !ok {
			return
		}
		if text, ok := in.Interpretation(result.Scores); ok {
			utilities.Info("Assessment %d (%s): %s", result.ID, in.Name, text)
		}
	})
}
