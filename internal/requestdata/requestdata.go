package requestdata

import (
  "context"
  "github.com/google/uuid"
)

type ctxKey struct{}

type RequestData struct {
  UserID        uuid.UUID
  TokenString   string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
  return context.WithValue(ctx, ctxKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
  rd, ok := ctx.Value(ctxKey{}).(*RequestData)
  if !ok {
    return nil
  }
  return rd
}

type traceCtxKey struct{}

type TraceData struct {
  TraceID   string
  RequestID string
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
  return context.WithValue(ctx, traceCtxKey{}, td)
}

func GetTraceData(ctx context.Context) *TraceData {
  td, ok := ctx.Value(traceCtxKey{}).(*TraceData)
  if !ok {
    return nil
  }
  return td
}
