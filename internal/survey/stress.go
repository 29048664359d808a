package survey

import (
	"survey-assessment-backend/internal/model"
	"survey-assessment-backend/utilities"
)

const (
	StressSurveyID = 2
	StressScoreKey = "stress_score"
)

const (
	StressNotAtAll = "Not at All Stressed: The individual did not experience any " +
		"noticeable stress during the week. " +
		"This indicates high levels of relaxation and calmness, " +
		"effective coping mechanisms, and potentially " +
		"high life satisfaction and well-being."

	StressSlightly = "Slightly Stressed: The individual felt minor stressors " +
		"but managed them effectively without significant impact. " +
		"Minor challenges were present but easily handled, " +
		"with a general sense of well-being and only occasional stress."

	StressModerately = "Moderately Stressed: The individual experienced a " +
		"moderate level of stress that may have impacted their " +
		"daily life to some extent. There were noticeable " +
		"stressors that require attention, with possible " +
		"impacts on mood, energy levels, or productivity."

	StressVery = "Very Stressed: The individual felt a " +
		"high level of stress that likely affected " +
		"various aspects of their life. " +
		"Significant challenges or pressures were experienced, " +
		"with potential negative effects on mental and physical health."

	StressExtremely = "Extremely Stressed: The individual experienced " +
		"overwhelming stress that severely " +
		"impacted their well-being. This indicates " +
		"intense stressors possibly leading to " +
		"burnout or mental health issues, with an urgent " +
		"need for support or professional help."

	StressInvalid = "Invalid stress score. Please provide a score between 1 and 5."
)

const stressGuide = `Interpreting the Single-Item Stress Measure involves understanding the respondent's perceived stress level within the specified timeframe, in this case weekly.

Stress Measure Overview:
Question: "On a scale from 1 to 5, how stressed have you felt this week?"
Response Scale:
1: Not at all stressed
2: Slightly stressed
3: Moderately stressed
4: Very stressed
5: Extremely stressed

Considerations for Interpretation:
- Responses are subjective and can be influenced by current mood, recent events, or individual perception of stress.
- Consider contextual factors such as major life changes, work deadlines, or personal issues.
- Cultural backgrounds may influence how individuals perceive and report stress.
- Consider complementing with additional measures for a more comprehensive understanding.`

var stressLevels = map[int]string{
	1: StressNotAtAll,
	2: StressSlightly,
	3: StressModerately,
	4: StressVery,
	5: StressExtremely,
}

// InterpretStress maps a 1..5 stress score to its description, or
// StressInvalid for anything else.
func InterpretStress(score int) string {
	if s, ok := stressLevels[score]; ok {
		return s
	}
	return StressInvalid
}

// SingleItemScoring reports the raw score of the answer to the survey's
// only question, without rounding.
type SingleItemScoring struct {
	ScoreName string
}

func (s SingleItemScoring) CalculateScore(answers []model.Answer, questions []model.Question) map[string]float64 {
	for _, answer := range answers {
		if _, ok := FindQuestion(questions, answer.QuestionID); !ok {
			utilities.Warn("Question ID %d not found while computing %s.", answer.QuestionID, s.ScoreName)
			continue
		}
		utilities.Info("%s computed: %g", s.ScoreName, answer.Score)
		return map[string]float64{s.ScoreName: answer.Score}
	}
	utilities.Warn("no scorable answer for %s", s.ScoreName)
	return map[string]float64{}
}

func stressInstrument() *Instrument {
	return &Instrument{
		ID:       StressSurveyID,
		Name:     "Single-Item Stress Measure",
		Type:     model.SurveyTypeWeekly,
		Strategy: SingleItemScoring{ScoreName: StressScoreKey},
		Guide:    stressGuide,
		Interpret: func(scores map[string]float64) string {
			score, ok := scores[StressScoreKey]
			if !ok {
				return StressInvalid
			}
			return InterpretStress(int(score))
		},
		Questions: []model.Question{
			{
				ID:            5,
				Text:          "On a scale from 1 to 5, how stressed have you felt this week?",
				ScaleMin:      1,
				ScaleMax:      5,
				ScaleMinLabel: "Not at all stressed",
				ScaleMaxLabel: "Extremely stressed",
			},
		},
	}
}
