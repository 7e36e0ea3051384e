/*
Package authsdk is a Go client for the BornToTravel auth service.

An SDKClient calls the public endpoints. Signing in returns a Session that
carries the token pair for the authenticated ones:

	client := authsdk.NewSDKClient("https://auth.example.com")

	session, err := client.Login(ctx, "jeanne@example.com", "Str0ng!Pass")
	if err != nil {
		var apiErr *authsdk.APIError
		if errors.As(err, &apiErr) && apiErr.Code == authsdk.ErrorCodeBadCredentials {
			// wrong email or password
		}
	}

	me, err := session.Me(ctx)

The server rotates access tokens that are close to expiry and returns the new
one in the Authorization response header. A Session picks it up and uses it
for every later request; AccessToken reports the current value.

Password reset is a two-step flow on the SDKClient: ForgotPassword mails a
four-digit code, ResetPassword redeems it for a new password.

Every non-2xx answer is returned as an *APIError carrying the status, the
error code and, for weak passwords, the list of unmet rules.
*/
package authsdk
