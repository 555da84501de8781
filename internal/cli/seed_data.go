package cli

import "github.com/SAP-F-2025/training-service/internal/models"

func strPtr(s string) *string { return &s }

func foodSafetyQuiz() *models.CreateQuizRequest {
	mc := func(question string, correct int, answers ...string) models.CreateQuestionRequest {
		q := models.CreateQuestionRequest{Question: question, Type: models.QuestionMultipleChoice}
		for i, a := range answers {
			q.Answers = append(q.Answers, models.CreateAnswerRequest{Text: a, IsCorrect: i == correct})
		}
		return q
	}

	return &models.CreateQuizRequest{
		Title:        "Food Safety Basics Assessment",
		Description:  strPtr("Test your knowledge of essential food safety practices in our restaurant."),
		PassingScore: 85,
		IsPublished:  true,
		Questions: []models.CreateQuestionRequest{
			mc("What is the minimum internal temperature for cooking chicken?", 1,
				"145°F (63°C)", "165°F (74°C)", "155°F (68°C)", "175°F (79°C)"),
			mc("How long can prepared food be safely kept in the temperature danger zone?", 1,
				"1 hour", "2 hours", "4 hours", "6 hours"),
			mc("What is the temperature danger zone for food?", 1,
				"32°F to 140°F (0°C to 60°C)", "40°F to 140°F (4°C to 60°C)", "45°F to 135°F (7°C to 57°C)", "50°F to 150°F (10°C to 66°C)"),
			mc("How often should hands be washed during food preparation?", 2,
				"Once at the beginning of shift", "Every 30 minutes", "Before and after handling each ingredient", "Only when visibly dirty"),
			mc("What should you do if you notice a coworker handling food with an open wound?", 1,
				"Ignore it if they seem careful", "Tell them to cover it with a bandage and glove", "Report them to management immediately", "Finish the task for them"),
		},
	}
}

func foodSafetyCourse() *models.Course {
	return &models.Course{
		Title:       "Food Safety Fundamentals",
		Description: strPtr("Essential food safety protocols every team member must know"),
		IsPublished: true,
		Modules: []models.Module{
			{
				Title:      "Personal Hygiene",
				OrderIndex: 1,
				Lessons: []models.Lesson{
					{Title: "Handwashing Procedures", ContentType: models.ContentText, Duration: 15, OrderIndex: 1,
						Content: "Wet hands with warm water, scrub with soap for at least 20 seconds, rinse and dry."},
					{Title: "Proper Uniform and Appearance", ContentType: models.ContentText, Duration: 10, OrderIndex: 2,
						Content: "Clean apron, hair restraint, non-slip shoes, short clean fingernails."},
				},
			},
			{
				Title:      "Temperature Control",
				OrderIndex: 2,
				Lessons: []models.Lesson{
					{Title: "Safe Food Temperatures", ContentType: models.ContentText, Duration: 20, OrderIndex: 1,
						Content: "Keep hot food at 140°F (60°C) or above and cold food at 40°F (4°C) or below."},
				},
			},
		},
	}
}
