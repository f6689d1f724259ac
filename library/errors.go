package library

import "fmt"

// NotFoundError reports that a record lookup came up empty. Entity is the
// record kind ("book" or "member").
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.Key)
}

// UnknownTierError reports a membership tier with no registered policy or fee
// rule. This is a configuration defect, not a user-facing outcome.
type UnknownTierError struct {
	Tier MembershipTier
}

func (e *UnknownTierError) Error() string {
	return fmt.Sprintf("no policy registered for membership tier %q", e.Tier)
}

// InvalidReportTypeError reports an unrecognized report discriminator.
type InvalidReportTypeError struct {
	Kind string
}

func (e *InvalidReportTypeError) Error() string {
	return fmt.Sprintf("invalid report type %q", e.Kind)
}

// InvalidSearchTypeError reports an unrecognized search discriminator.
type InvalidSearchTypeError struct {
	Kind string
}

func (e *InvalidSearchTypeError) Error() string {
	return fmt.Sprintf("invalid search type %q", e.Kind)
}
