package formaterror

import "strings"

// FormatError maps raw database and auth errors onto messages safe to return
// to the admin client.
func FormatError(errString string) map[string]string {
	errorMessages := map[string]string{}

	if strings.Contains(errString, "email") && strings.Contains(errString, "duplicate") ||
		strings.Contains(errString, "UNIQUE constraint failed: users.email") {
		errorMessages["Taken_email"] = "Email Already Taken"
	}
	if strings.Contains(errString, "record not found") || strings.Contains(errString, "User not found") {
		errorMessages["No_record"] = "No Record Found"
	}
	if strings.Contains(errString, "hashedPassword") {
		errorMessages["Incorrect_password"] = "Incorrect Password"
	}
	if strings.Contains(errString, "device_id") && (strings.Contains(errString, "duplicate") || strings.Contains(errString, "UNIQUE")) {
		errorMessages["Taken_device"] = "Device Already Registered"
	}
	if len(errorMessages) == 0 {
		errorMessages["Incorrect_details"] = "Incorrect Details"
	}
	return errorMessages
}
