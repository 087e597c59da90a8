package agent

const (
	createSucceeded     = "Perfect! I've created the task '%s' for you. It's now in your task list!"
	createClarification = "I'd be happy to create a task for you! Could you tell me what you'd like to add?"
	createRejected      = "I couldn't create that task: %v. Could you rephrase it?"

	listEmpty     = "You don't have any tasks yet. Feel free to create some by saying 'Add a task to [your task here]'."
	listSucceeded = "Here are your %d task(s). You can see them in the task list on the right!"

	completeSucceeded     = "Great! I've marked '%s' as completed."
	completeNotFound      = "I couldn't find a task matching '%s'. Please check the spelling or try again."
	completeClarification = "Which task would you like to mark as complete?"

	filterSucceeded = "Found %d %s priority task(s). Check the task list to see them!"

	deleteSucceeded     = "Task '%s' has been deleted successfully!"
	deleteNotFound      = "I couldn't find a task matching '%s' to delete."
	deleteClarification = "Which task would you like to delete?"

	errorResponse = "I encountered an error. Please try again."
	greeting      = "Hello! I'm your task management assistant. Try asking me to create a task!"
)

const assistantPrompt = `You are a helpful AI task management assistant. The user said: "%s"

Respond conversationally and helpfully. Here are some examples of what you can help with:
- Creating tasks: "Add a task to buy groceries"
- Listing tasks: "Show me my tasks"
- Completing tasks: "Mark the grocery task as done"
- Filtering tasks: "Show me high priority tasks"
- Deleting tasks: "Delete the meeting task"

Keep responses friendly and concise.`
