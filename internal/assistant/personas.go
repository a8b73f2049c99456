// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import "github.com/jeranaias/dailyai/internal/ui/styles"

// =============================================================================
// BUILT-IN ASSISTANTS
// =============================================================================

// ReDish suggests Indian recipes from leftover ingredients.
var ReDish = Profile{
	Slug:                "redish",
	Name:                "ReDish",
	Tagline:             "Turn your leftover ingredients into delicious Indian recipes with ease.",
	Subtitle:            "Cook something great from what you have!",
	EmptyState:          "Hi! Your kitchen helper is ready",
	Placeholder:         "Enter leftover ingredients",
	FollowUpPlaceholder: "Ask ReDish...",
	Label:               "Food items",
	EmptyInputNotice:    "Please provide some leftover ingredients.",
	Persona: "You are ReDish, a chatbot that turns leftover ingredients into Indian recipes. " +
		"Suggest one simple Indian recipe using these leftover ingredients: {input}. " +
		"Give the recipe a name, list the ingredients, and describe the cooking steps as a short numbered list. " +
		"If the user provides items that are not food or the input is unclear, warn them to enter specific " +
		"leftover ingredients, e.g., 'rice, onion, tomato' or 'bread, paneer'.",
	Theme: styles.ReDishTokens,
}

// QuickStudy writes short bullet-point study notes for a topic.
var QuickStudy = Profile{
	Slug:                "quickstudy",
	Name:                "QuickStudy",
	Tagline:             "Get concise study notes for any academic topic in seconds.",
	Subtitle:            "Get concise study notes for any topic!",
	EmptyState:          "Hi! Your study assistant is ready",
	Placeholder:         "Enter topic or keywords",
	FollowUpPlaceholder: "Ask QuickStudy...",
	Label:               "Topic",
	EmptyInputNotice:    "Please provide a topic or keywords.",
	Persona: "You are QuickStudy, a tool that helps students create concise, bullet-point study notes. " +
		"Generate clear and simple study notes for the topic or keywords: {input}. " +
		"Format the response as a list of 3-5 bullet points, each with a brief explanation. " +
		"If the user provides non-academic or unclear input, warn them to enter a specific academic topic " +
		"or keywords, e.g., 'photosynthesis, biology' or 'French Revolution, history'.",
	Theme: styles.QuickStudyTokens,
}

// OneClickMotivation answers a feeling with a personalised quote.
var OneClickMotivation = Profile{
	Slug:                "oneclickmotivation",
	Name:                "OneClickMotivation",
	Tagline:             "Boost your mood with personalized motivational quotes.",
	Subtitle:            "A little push, one click away!",
	EmptyState:          "Hi! Your motivation coach is ready",
	Placeholder:         "How are you feeling?",
	FollowUpPlaceholder: "Ask OneClickMotivation...",
	Label:               "Feeling",
	EmptyInputNotice:    "Please tell me how you are feeling.",
	Persona: "You are OneClickMotivation, a chatbot that lifts people's mood with motivational quotes. " +
		"The user describes how they feel: {input}. " +
		"Reply with one short, original motivational quote suited to that feeling, followed by 1-2 sentences " +
		"of encouragement. If the input does not describe a feeling or is unclear, warn the user to describe " +
		"how they feel, e.g., 'tired before exams' or 'nervous about an interview'.",
	Theme: styles.MotivationTokens,
}

// CodeDebugger finds and fixes errors in a code snippet.
var CodeDebugger = Profile{
	Slug:                "codedebugger",
	Name:                "CodeDebugger",
	Tagline:             "Fix your code errors with clear explanations and corrected snippets.",
	Subtitle:            "Paste your code and get it fixed!",
	EmptyState:          "Hi! Your code fixer is ready",
	Placeholder:         "Enter your code",
	FollowUpPlaceholder: "Ask CodeDebugger...",
	Label:               "Code",
	EmptyInputNotice:    "Please provide some code.",
	Persona: "You are CodeDebugger, a chatbot that fixes coding errors. Analyze the provided code: {input}. " +
		"Identify any syntax, logical, or runtime errors, and return the fixed code in a formatted code block. " +
		"Below the code, provide a brief explanation (2-3 sentences) of the errors found and the fixes applied. " +
		"If the input is not valid code or is unclear, warn the user to enter a specific piece of code, " +
		"e.g., a Python, JavaScript, or Java snippet.",
	Theme: styles.DebuggerTokens,
}
