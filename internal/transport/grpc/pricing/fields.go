package pricing

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// fields reads typed values out of a request Struct.
type fields map[string]*structpb.Value

func fieldsOf(s *structpb.Struct) fields {
	if s == nil {
		return fields{}
	}
	return s.GetFields()
}

func (f fields) has(key string) bool {
	v, ok := f[key]
	if !ok {
		return false
	}
	_, isNull := v.GetKind().(*structpb.Value_NullValue)
	return !isNull
}

func (f fields) str(key string) (string, error) {
	p, err := f.optStr(key)
	if err != nil || p == nil {
		return "", err
	}
	return *p, nil
}

func (f fields) requiredStr(key string) (string, error) {
	s, err := f.str(key)
	if err != nil {
		return "", err
	}
	if s == "" {
		return "", status.Errorf(codes.InvalidArgument, "%s is required", key)
	}
	return s, nil
}

func (f fields) optStr(key string) (*string, error) {
	if !f.has(key) {
		return nil, nil
	}
	s, ok := f[key].GetKind().(*structpb.Value_StringValue)
	if !ok {
		return nil, status.Errorf(codes.InvalidArgument, "%s must be a string", key)
	}
	return &s.StringValue, nil
}

// optDecimal accepts a decimal string or a JSON number. Numbers are
// converted through their shortest decimal form, so 80.1 stays 80.1.
func (f fields) optDecimal(key string) (*string, error) {
	if !f.has(key) {
		return nil, nil
	}
	switch v := f[key].GetKind().(type) {
	case *structpb.Value_StringValue:
		return &v.StringValue, nil
	case *structpb.Value_NumberValue:
		if math.IsNaN(v.NumberValue) || math.IsInf(v.NumberValue, 0) {
			return nil, status.Errorf(codes.InvalidArgument, "%s must be finite", key)
		}
		s := decimal.NewFromFloat(v.NumberValue).String()
		return &s, nil
	default:
		return nil, status.Errorf(codes.InvalidArgument, "%s must be a decimal string or number", key)
	}
}

func (f fields) requiredDecimal(key string) (string, error) {
	p, err := f.optDecimal(key)
	if err != nil {
		return "", err
	}
	if p == nil {
		return "", status.Errorf(codes.InvalidArgument, "%s is required", key)
	}
	return *p, nil
}

func (f fields) optInt(key string) (*int64, error) {
	if !f.has(key) {
		return nil, nil
	}
	v, ok := f[key].GetKind().(*structpb.Value_NumberValue)
	if !ok || v.NumberValue != math.Trunc(v.NumberValue) || math.Abs(v.NumberValue) > 1<<53 {
		return nil, status.Errorf(codes.InvalidArgument, "%s must be an integer", key)
	}
	n := int64(v.NumberValue)
	return &n, nil
}

func (f fields) integer(key string) (int64, error) {
	p, err := f.optInt(key)
	if err != nil || p == nil {
		return 0, err
	}
	return *p, nil
}

func (f fields) boolean(key string) (bool, error) {
	if !f.has(key) {
		return false, nil
	}
	v, ok := f[key].GetKind().(*structpb.Value_BoolValue)
	if !ok {
		return false, status.Errorf(codes.InvalidArgument, "%s must be a boolean", key)
	}
	return v.BoolValue, nil
}

// optTime reads an RFC 3339 timestamp string.
func (f fields) optTime(key string) (*time.Time, error) {
	s, err := f.optStr(key)
	if err != nil || s == nil {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "%s must be an RFC 3339 timestamp", key)
	}
	return &t, nil
}
