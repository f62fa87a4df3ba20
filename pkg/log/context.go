package log

import "context"

type fieldsKey struct{}

// WithFields returns a copy of ctx carrying the given key/value pairs.
// Every log call made with the returned context emits them as structured fields.
func WithFields(ctx context.Context, keysAndValues ...any) context.Context {
	if len(keysAndValues) == 0 {
		return ctx
	}
	prev := Fields(ctx)
	merged := make([]any, 0, len(prev)+len(keysAndValues))
	merged = append(merged, prev...)
	merged = append(merged, keysAndValues...)
	return context.WithValue(ctx, fieldsKey{}, merged)
}

// Fields returns the key/value pairs attached to ctx by WithFields.
func Fields(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}
	kv, _ := ctx.Value(fieldsKey{}).([]any)
	return kv
}
