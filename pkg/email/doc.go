// Package email sends transactional mail for the access services, such as
// the onboarding welcome message. The Sender interface keeps callers
// provider-agnostic: production wires the Postmark client, development and
// tests wire DevSender, which logs instead of sending.
//
//	var cfg email.Config
//	config.MustLoad(&cfg)
//
//	sender := email.MustNewPostmarkSender(cfg)
//	err := sender.Send(ctx, email.SendParams{
//	    SendTo:   "officer@firstbank.com",
//	    Subject:  "Welcome aboard",
//	    BodyHTML: body,
//	    Tag:      "onboarding-welcome",
//	})
package email
