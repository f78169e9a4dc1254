package email

import (
	"fmt"
)

const defaultAppName = "BioIntellect"

// AccessRequestEmailData carries the fields rendered into access grant
// workflow emails.
type AccessRequestEmailData struct {
	RecipientName string
	Email         string
	PatientName   string
	DoctorName    string
	Reason        string
	Approved      bool
	AppName       string
}

// BuildAccessRequestedEmail notifies a doctor that a patient asked to
// share a chat conversation with them.
func BuildAccessRequestedEmail(data AccessRequestEmailData) Message {
	appName := data.AppName
	if appName == "" {
		appName = defaultAppName
	}

	name := data.RecipientName
	if name == "" {
		name = "Doctor"
	}

	subject := fmt.Sprintf("New conversation access request on %s", appName)

	textBody := fmt.Sprintf(`Hi %s,

%s has requested to share a health assistant conversation with you.

Reason: %s

Please sign in to %s to approve or reject the request.

Thanks,
The %s Team`,
		name, data.PatientName, data.Reason, appName, appName)

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #2563eb;">Hi %s,</h2>
    <p><strong>%s</strong> has requested to share a health assistant conversation with you.</p>
    <p style="background-color: #f3f4f6; padding: 10px 15px; border-radius: 4px;">Reason: %s</p>
    <p>Please sign in to %s to approve or reject the request.</p>
    <p style="color: #6b7280; font-size: 14px; margin-top: 30px;">Thanks,<br>The %s Team</p>
</body>
</html>`,
		name, data.PatientName, data.Reason, appName, appName)

	return Message{
		To:       []string{data.Email},
		Subject:  subject,
		TextBody: textBody,
		HTMLBody: htmlBody,
	}
}

// BuildAccessRespondedEmail notifies a patient that a doctor responded
// to their access request.
func BuildAccessRespondedEmail(data AccessRequestEmailData) Message {
	appName := data.AppName
	if appName == "" {
		appName = defaultAppName
	}

	name := data.RecipientName
	if name == "" {
		name = "there"
	}

	verdict := "rejected"
	if data.Approved {
		verdict = "approved"
	}

	subject := fmt.Sprintf("Your access request was %s", verdict)

	textBody := fmt.Sprintf(`Hi %s,

Dr. %s has %s your request to share a health assistant conversation.

Sign in to %s for details.

Thanks,
The %s Team`,
		name, data.DoctorName, verdict, appName, appName)

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #2563eb;">Hi %s,</h2>
    <p>Dr. <strong>%s</strong> has <strong>%s</strong> your request to share a health assistant conversation.</p>
    <p>Sign in to %s for details.</p>
    <p style="color: #6b7280; font-size: 14px; margin-top: 30px;">Thanks,<br>The %s Team</p>
</body>
</html>`,
		name, data.DoctorName, verdict, appName, appName)

	return Message{
		To:       []string{data.Email},
		Subject:  subject,
		TextBody: textBody,
		HTMLBody: htmlBody,
	}
}

// BuildWelcomeEmail greets a freshly provisioned user.
func BuildWelcomeEmail(email, firstName, role, appName string) Message {
	if appName == "" {
		appName = defaultAppName
	}
	name := firstName
	if name == "" {
		name = "there"
	}

	subject := fmt.Sprintf("Welcome to %s", appName)

	textBody := fmt.Sprintf(`Hi %s,

Your %s account has been created with the %s role.

You can sign in with this email address.

Thanks,
The %s Team`,
		name, appName, role, appName)

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #2563eb;">Hi %s,</h2>
    <p>Your %s account has been created with the <strong>%s</strong> role.</p>
    <p>You can sign in with this email address.</p>
    <p style="color: #6b7280; font-size: 14px; margin-top: 30px;">Thanks,<br>The %s Team</p>
</body>
</html>`,
		name, appName, role, appName)

	return Message{
		To:       []string{email},
		Subject:  subject,
		TextBody: textBody,
		HTMLBody: htmlBody,
	}
}
