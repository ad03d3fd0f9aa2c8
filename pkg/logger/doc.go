// Package logger is a thin factory around log/slog shared by all access
// services. It standardises output format and level selection, attaches
// static service attributes, and injects request-scoped values (request id,
// actor id) from context.Context into every record.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithProduction("access"),
//	    logger.WithContextExtractors(requestid.LogExtractor()),
//	)
//	logger.SetAsDefault(log)
//
//	log.InfoContext(ctx, "role assigned",
//	    logger.UserID(userID),
//	    logger.OrganizationID(orgID),
//	    logger.Role("bank_officer"),
//	)
//
// Attribute constructors in attr.go keep key naming consistent across the
// codebase; Error and friends return an empty Attr for nil input so call
// sites need no nil checks.
package logger
