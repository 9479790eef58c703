package handler

const (
	errInternalServer = "Internal server error"

	errUserNotFound      = "User not found"
	errNameEmailRequired = "Name and email are required"
	errEmailTaken        = "Email is already in use"
	errEmailTakenByOther = "Email is already in use by another user"
	errFieldNotNullable  = "Name and email cannot be null"

	errRegisterFieldsRequired = "Username, password and email are required"
	errCredentialsTaken       = "Username or email is already registered"
	errLoginFieldsRequired    = "Username and password are required"
	errInvalidCredentials     = "Invalid username or password"
)
