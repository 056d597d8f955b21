package logging

import "context"

type fieldsKey struct{}

// ContextWith returns a copy of ctx carrying key-value pairs that every
// Logger appends to entries logged with it, e.g. the id of an upload.
func ContextWith(ctx context.Context, args ...any) context.Context {
	prev := contextFields(ctx)
	fields := make([]any, 0, len(prev)+len(args))
	fields = append(fields, prev...)
	fields = append(fields, args...)
	return context.WithValue(ctx, fieldsKey{}, fields)
}

func contextFields(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(fieldsKey{}).([]any)
	return fields
}

// withContext puts the context fields in front of args.
func withContext(ctx context.Context, args []any) []any {
	fields := contextFields(ctx)
	if len(fields) == 0 {
		return args
	}
	return append(fields[:len(fields):len(fields)], args...)
}
