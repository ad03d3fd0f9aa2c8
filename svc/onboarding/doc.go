// Package onboarding drives new users through the five-step journey that
// ends with their permanent role grant: organization setup, profile
// completion, security setup, preferences, and platform training.
//
// Progression runs on pkg/statemachine. Each journey is a document keyed by
// (user, organization); the machine itself is stateless and acts as the
// transition authority: a step only advances when its payload passes the
// step's validation guard, and steps must be completed strictly in order.
//
//	svc := onboarding.NewService(storage, roleSvc, assignmentSvc,
//	    onboarding.WithLogger(log),
//	    onboarding.WithEmailSender(sender),
//	)
//
//	journey, err := svc.StartJourney(ctx, userID, orgID, "bank")
//	if err != nil {
//	    return err
//	}
//
//	journey, err = svc.CompleteStep(ctx, userID, orgID, 1, map[string]any{
//	    "organizationName": "First Trade Bank",
//	    "organizationRole": "manager",
//	})
//
// Completing the final step finalizes the journey exactly once: the
// permanent role is granted through the assignment ledger, temporary
// permissions are cleared, and a welcome email goes out best-effort.
package onboarding
