package botapp

// Reply texts. Formatting beyond simple substitution lives in format.go.
const (
	msgStart = "Hi! I track currency rates and personal finances.\n\n" +
		"/get_currencies — list saved currencies\n" +
		"/convert — convert an amount to rubles\n" +
		"/reg — register\n" +
		"/add_operation — record an income or expense\n" +
		"/operations — show your operations\n" +
		"/lk — your profile\n" +
		"/cancel — abort the current action"

	msgAskCurrencyName   = "Enter the currency name:"
	msgAskRate           = "Enter the rate of %s to the ruble:"
	msgAskNewRate        = "Enter the new rate of %s to the ruble:"
	msgAskCurrencyToDel  = "Which currency should be deleted?"
	msgAskCurrencyToUpd  = "Which currency should get a new rate?"
	msgAskConvertAmount  = "Enter the amount in %s:"
	msgAskUsername       = "Choose a username:"
	msgAskOperationSum   = "Enter the amount:"
	msgAskOperationDate  = "Enter the date as DD.MM.YYYY:"
	msgRetryNumber       = "Please enter a positive number."
	msgRetryDate         = "That is not a DD.MM.YYYY date. Try again."
	msgRetryEmpty        = "The name cannot be empty. Try again."
	msgUnknownChoicePfx  = "Unknown currency. Choose one of: %s"
	msgCancelled         = "Action cancelled."
	msgCancelNoop        = "Nothing to cancel."
	msgCurrencySaved     = "Saved: %s at rate %s."
	msgCurrencyExists    = "This currency already exists."
	msgCurrencyDeleted   = "Deleted %s."
	msgCurrencyUpdated   = "Updated %s to rate %s."
	msgCurrencyNotFound  = "There is no such currency."
	msgNoCurrencies      = "No currencies are saved yet."
	msgConvertResult     = "%s %s = %s RUB"
	msgRegistered        = "You are registered as %s."
	msgAlreadyRegistered = "You are already registered."
	msgNotRegistered     = "You are not registered yet. Use /reg first."
	msgOperationSaved    = "Recorded %s of %s RUB on %s."
	msgNoOperations      = "You have no operations yet."
	msgChooseOpKind      = "What do you want to record?"
	msgChooseOpsCurrency = "In which currency should the amounts be shown?"
	msgRoleSet           = "Role %s assigned to user %d."
	msgSetRoleUsage      = "Usage: /set_role <user_id> <admin|user>"
	msgAccessDenied      = "This command is for administrators only."
	msgServiceDown       = "The service is unavailable right now. Try again later."
	msgManageCurrency    = "What should be done with the currencies?"
	msgUnknownRequest    = "I did not understand that. See /start for the command list."
	msgChooseConvertPfx  = "Which currency do you want to convert?\nAvailable: %s"
	msgChoicesSuffixPfx  = "\nAvailable: %s"
)
