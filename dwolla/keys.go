package dwolla

const (
	DefaultHost = "https://uat.dwolla.com/oauth/rest"

	TransactionsPath = "/transactions"
	SendPath         = TransactionsPath + "/send"
)

// Request body keys.
const (
	KeyDestinationID        = "destinationId"
	KeyPIN                  = "pin"
	KeyAmount               = "amount"
	KeyDestinationType      = "destinationType"
	KeyFundsSource          = "fundsSource"
	KeyNotes                = "notes"
	KeyAssumeCosts          = "assumeCosts"
	KeyAdditionalFees       = "additionalFees"
	KeyMetadata             = "metadata"
	KeyAssumeAdditionalFees = "assumeAdditionalFees"
	KeyFacilitatorAmount    = "facilitatorAmount"
)

// Envelope keys.
const (
	KeySuccess  = "Success"
	KeyMessage  = "Message"
	KeyResponse = "Response"
)

// Messages the service is known to return in the envelope.
const (
	MessageInvalidAccessToken  = "Invalid access token"
	MessageInsufficientBalance = "Insufficient balance"
	MessageInvalidAccountPIN   = "Invalid account PIN"

	// MessageUnknown is reported when the envelope or its payload cannot be read.
	MessageUnknown = "Unknown error"
)
