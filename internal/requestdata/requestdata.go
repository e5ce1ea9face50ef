package requestdata

import "context"

type ctxKey struct{}

var requestDataKey ctxKey

// RequestData carries the verified caller identity for one request. The
// identity provider mints the token; by the time this struct exists the
// signature has already been checked. Mapping the external id onto a user
// row is the services' job.
type RequestData struct {
	ExternalID string
	Name       string
	Email      string
	AvatarURL  string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if rd, ok := ctx.Value(requestDataKey).(*RequestData); ok {
		return rd
	}
	return nil
}
