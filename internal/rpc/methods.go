package rpc

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "familyvault.Vault"

// Method names of the Vault service.
const (
	MethodPing = "Ping"

	MethodRequestSignup        = "RequestSignup"
	MethodConfirmSignup        = "ConfirmSignup"
	MethodLogin                = "Login"
	MethodRequestPasswordReset = "RequestPasswordReset"
	MethodResetPassword        = "ResetPassword"
	MethodRefreshToken         = "RefreshToken"

	MethodGetSettings    = "GetSettings"
	MethodUpdateSettings = "UpdateSettings"

	MethodAddNominee    = "AddNominee"
	MethodListNominees  = "ListNominees"
	MethodDeleteNominee = "DeleteNominee"
	MethodGrantAccess   = "GrantAccess"
	MethodRevokeAccess  = "RevokeAccess"
	MethodListGrants    = "ListGrants"

	MethodCreateUpload   = "CreateUpload"
	MethodMarkUploaded   = "MarkUploaded"
	MethodListDocuments  = "ListDocuments"
	MethodDeleteDocument = "DeleteDocument"
	MethodDocumentURL    = "DocumentURL"

	MethodRequestEmergencyAccess = "RequestEmergencyAccess"
	MethodVerifyEmergencyAccess  = "VerifyEmergencyAccess"
	MethodEmergencyDocumentURL   = "EmergencyDocumentURL"
)

// FullMethod returns the "/service/method" path used by gRPC.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// PublicMethods need no owner access token. EmergencyDocumentURL carries a
// nominee token instead.
var PublicMethods = map[string]bool{
	MethodPing:                   true,
	MethodRequestSignup:          true,
	MethodConfirmSignup:          true,
	MethodLogin:                  true,
	MethodRequestPasswordReset:   true,
	MethodResetPassword:          true,
	MethodRefreshToken:           true,
	MethodRequestEmergencyAccess: true,
	MethodVerifyEmergencyAccess:  true,
	MethodEmergencyDocumentURL:   true,
}
