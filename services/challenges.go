package services

import "github.com/anjiri1684/coded/database"

type ChallengeTestCase struct {
	Input    interface{} `json:"input"`
	Expected interface{} `json:"expected"`
}

type Challenge struct {
	ID            int                 `json:"id"`
	Title         string              `json:"title,omitempty"`
	Description   string              `json:"description,omitempty"`
	Question      string              `json:"question,omitempty"`
	Options       []string            `json:"options,omitempty"`
	CorrectAnswer string              `json:"correct_answer,omitempty"`
	Explanation   string              `json:"explanation,omitempty"`
	Language      string              `json:"language,omitempty"`
	Code          string              `json:"code,omitempty"`
	Solution      string              `json:"solution,omitempty"`
	TestCases     []ChallengeTestCase `json:"test_cases,omitempty"`
	Hint          string              `json:"hint,omitempty"`
	Points        int                 `json:"points"`
}

var challengeCatalog = map[string][]Challenge{
	database.GameDebugChallenge: {
		{
			ID:          1,
			Title:       "Fix the Syntax Error",
			Description: "Find and fix the syntax error in this Python code.",
			Language:    "python",
			Code:        "def calculate_sum(a, b)\n    return a + b\n\nprint(calculate_sum(5, 10))",
			Solution:    "def calculate_sum(a, b):\n    return a + b\n\nprint(calculate_sum(5, 10))",
			Hint:        "Check the function definition line carefully.",
			Points:      100,
		},
		{
			ID:          2,
			Title:       "Fix the Logic Error",
			Description: "This function should return the average of an array, but it's not working correctly.",
			Language:    "javascript",
			Code:        "function calculateAverage(numbers) {\n  let sum = 0;\n  for (let i = 0; i <= numbers.length; i++) {\n    sum += numbers[i];\n  }\n  return sum / numbers.length;\n}",
			Solution:    "function calculateAverage(numbers) {\n  let sum = 0;\n  for (let i = 0; i < numbers.length; i++) {\n    sum += numbers[i];\n  }\n  return sum / numbers.length;\n}",
			Hint:        "Check the loop condition carefully.",
			Points:      150,
		},
	},
	database.GameSyntaxQuiz: {
		{
			ID:            1,
			Question:      "Which of the following is NOT a valid JavaScript data type?",
			Options:       []string{"String", "Number", "Boolean", "Float"},
			CorrectAnswer: "Float",
			Explanation:   "Floating-point numbers are part of the Number type; Float is not a distinct type.",
			Points:        50,
		},
		{
			ID:            2,
			Question:      "What will be the output of the following Python code?\n\nx = 5\ny = 10\nprint(x + y * 2)",
			Options:       []string{"25", "30", "15", "20"},
			CorrectAnswer: "25",
			Explanation:   "Multiplication binds tighter than addition: 10 * 2 = 20, then 5 + 20 = 25.",
			Points:        75,
		},
	},
	database.GameAlgorithmChallenge: {
		{
			ID:          1,
			Title:       "Reverse a String",
			Description: "Write a function that reverses a string without using the built-in reverse() method.",
			Language:    "javascript",
			Code:        "function reverseString(str) {\n  // Your code here\n}",
			TestCases: []ChallengeTestCase{
				{Input: "hello", Expected: "olleh"},
				{Input: "javascript", Expected: "tpircsavaj"},
			},
			Hint:   "Try using a loop that starts from the end of the string.",
			Points: 200,
		},
		{
			ID:          2,
			Title:       "Find the Missing Number",
			Description: "Given an array containing n distinct numbers taken from 0, 1, 2, ..., n, find the missing number.",
			Language:    "python",
			Code:        "def find_missing_number(nums):\n    # Your code here",
			TestCases: []ChallengeTestCase{
				{Input: []int{3, 0, 1}, Expected: 2},
				{Input: []int{9, 6, 4, 2, 3, 5, 7, 0, 1}, Expected: 8},
			},
			Hint:   "Consider using the sum formula for the first n natural numbers.",
			Points: 250,
		},
	},
	database.GameCodeCompletion: {
		{
			ID:          1,
			Title:       "Complete the Function",
			Description: "Complete the function to check if a number is prime.",
			Language:    "python",
			Code:        "def is_prime(n):\n    if n <= 1:\n        return False\n    if n <= 3:\n        return True\n    if n % 2 == 0 or n % 3 == 0:\n        return False\n    # Complete the function",
			Solution:    "def is_prime(n):\n    if n <= 1:\n        return False\n    if n <= 3:\n        return True\n    if n % 2 == 0 or n % 3 == 0:\n        return False\n    i = 5\n    while i * i <= n:\n        if n % i == 0 or n % (i + 2) == 0:\n            return False\n        i += 6\n    return True",
			Hint:        "You need to check divisibility by numbers of the form 6k ± 1.",
			Points:      175,
		},
	},
}

// ChallengesFor returns the challenge set for a game name, never nil.
func ChallengesFor(gameName string) []Challenge {
	set, ok := challengeCatalog[gameName]
	if !ok {
		return []Challenge{}
	}
	out := make([]Challenge, len(set))
	copy(out, set)
	return out
}
