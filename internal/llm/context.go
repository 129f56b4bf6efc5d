package llm

import "context"

type (
	purposeKey struct{}
	runKey     struct{}
)

// WithPurpose attaches a purpose label, such as "material-gen", to the
// context. The logging decorator records it with every request.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom extracts the purpose label from the context, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok && v != "" {
		return v
	}
	return "unknown"
}

// WithRunID tags every request made under ctx with a generate run, so
// the LLM events can be matched to the profile event of the same run.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runKey{}, id)
}

// RunIDFrom returns the run ID attached to ctx, or "".
func RunIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(runKey{}).(string)
	return id
}
