package survey

import (
	"survey-assessment-backend/internal/model"
	"survey-assessment-backend/utilities"
)

const (
	HappinessSurveyID = 1
	HappinessScoreKey = "happiness_score"
)

const (
	HappinessHigh = "High Subjective Happiness: " +
		"Individuals perceive themselves as very happy, " +
		"with strong positive self-assessment and " +
		"alignment with positive happiness characteristics."

	HappinessModerate = "Moderate Subjective Happiness: " +
		"Individuals experience a moderate level of happiness, " +
		"with a balanced self-assessment and " +
		"some alignment with positive happiness traits."

	HappinessLow = "Low Subjective Happiness: " +
		"Individuals perceive themselves as less happy, " +
		"with negative self-assessment and " +
		"strong alignment with negative happiness descriptions."
)

const happinessGuide = `Interpreting the Subjective Happiness Scale (SHS) scores involves understanding the range and meaning of the average score derived from the four survey items.

Scoring Overview:
- Number of Items: 4
- Response Scale: each item is rated on a 7-point scale (1: Strongly disagree / Not at all, 7: Strongly agree / A great deal)
- Item 4 is reverse-scored
- Calculate the average of all four items
- Possible Range: 1 (lowest happiness) to 7 (highest happiness)

Interpreting the Average Score:
- 6 to 7: High Subjective Happiness
- 4 to 5: Moderate Subjective Happiness
- 1 to 3: Low Subjective Happiness

Considerations for Interpretation:
- Consider contextual factors, cultural sensitivity, and use a holistic assessment approach.`

// InterpretHappiness maps an SHS average onto its band. Values outside
// 1..7 fall through to LOW.
func InterpretHappiness(score float64) string {
	switch {
	case 6 <= score && score <= 7:
		return HappinessHigh
	case 4 <= score && score < 6:
		return HappinessModerate
	default:
		return HappinessLow
	}
}

// MeanScoring averages answers over the number of questions, reverse
// scoring flagged questions, rounded to two decimals.
type MeanScoring struct {
	ScoreName string
}

func (s MeanScoring) CalculateScore(answers []model.Answer, questions []model.Question) map[string]float64 {
	if len(questions) == 0 {
		utilities.Warn("mean scoring %q called without questions", s.ScoreName)
		return map[string]float64{s.ScoreName: 0}
	}

	var total float64
	for _, answer := range answers {
		question, ok := FindQuestion(questions, answer.QuestionID)
		if !ok {
			utilities.Warn("Question ID %d not found while computing %s.", answer.QuestionID, s.ScoreName)
			continue
		}
		score := answer.Score
		if question.ReverseScored {
			score = ReverseScore(score, question.ScaleMin, question.ScaleMax)
			utilities.Debug("Reverse-scored question %d: original score %g, reversed score %g",
				question.ID, answer.Score, score)
		}
		total += score
	}

	average := total / float64(len(questions))
	utilities.Info("%s computed: %.2f", s.ScoreName, average)
	return map[string]float64{s.ScoreName: round2(average)}
}

func happinessInstrument() *Instrument {
	return &Instrument{
		ID:       HappinessSurveyID,
		Name:     "Subjective Happiness Scale",
		Type:     model.SurveyTypeWeekly,
		Strategy: MeanScoring{ScoreName: HappinessScoreKey},
		Guide:    happinessGuide,
		Interpret: func(scores map[string]float64) string {
			return InterpretHappiness(scores[HappinessScoreKey])
		},
		Questions: []model.Question{
			{
				ID:            1,
				Text:          "In general, I consider myself...",
				ScaleMin:      1,
				ScaleMax:      7,
				ScaleMinLabel: "not a very happy person",
				ScaleMaxLabel: "a very happy person",
			},
			{
				ID:            2,
				Text:          "Compared to most of my peers, I consider myself...",
				ScaleMin:      1,
				ScaleMax:      7,
				ScaleMinLabel: "less happy",
				ScaleMaxLabel: "more happy",
			},
			{
				ID: 3,
				Text: "Some people are generally very happy. " +
					"They enjoy life regardless of what is going on, " +
					"getting the most out of everything. " +
					"To what extent does this characterization describe you?",
				ScaleMin:      1,
				ScaleMax:      7,
				ScaleMinLabel: "not at all",
				ScaleMaxLabel: "a great deal",
			},
			{
				ID: 4,
				Text: "Some people are generally not very happy. " +
					"Although they are not depressed, " +
					"they never seem as happy as they might be. " +
					"To what extent does this characterization describe you?",
				ScaleMin:      1,
				ScaleMax:      7,
				ScaleMinLabel: "a great deal",
				ScaleMaxLabel: "not at all",
				ReverseScored: true,
			},
		},
	}
}
