package chat

// Callback data values understood by the bot's callback dispatcher.
const (
	CallbackNewWork  = "25"
	CallbackNewBreak = "5"
	CallbackJoin     = "join"
	CallbackHelp     = "help"
	CallbackCancel   = "cancel"
	CallbackStartNow = "start now"
)

// Inline keyboards shared between the session core and the command layer.
var (
	StartMenuKeyboard = Keyboard{{
		{Label: "/25", Data: CallbackNewWork},
		{Label: "/5", Data: CallbackNewBreak},
		{Label: "help", Data: CallbackHelp},
		{Label: "cancel", Data: CallbackCancel},
	}}

	JoinKeyboard = Keyboard{{
		{Label: "Join", Data: CallbackJoin},
	}}

	ContinueKeyboard = Keyboard{{
		{Label: "Yes", Data: CallbackNewWork},
		{Label: "No, thanks", Data: CallbackCancel},
	}}

	GotItKeyboard = Keyboard{{
		{Label: "Got it!", Data: CallbackCancel},
	}}
)
