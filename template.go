package relog

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Message templates use {name} placeholders bound positionally to values:
//
//	log.Bind("user {id} from {region}", 42, "eu-west-1")
//
// Doubled braces escape literals. Binding fails (ok=false) on malformed
// templates and on placeholder/value count mismatches; it never errors.

// BoundTemplate is a rendered template plus its typed fields, ready to be
// turned into an Entry at any level.
type BoundTemplate struct {
	text   string
	fields []Field
}

func (b BoundTemplate) Message() string { return b.text }

func (b BoundTemplate) Fields() []Field { return b.fields }

// Entry materializes the emission plan at the given level. The timestamp is
// left zero so the receiving pipeline stamps it.
func (b BoundTemplate) Entry(level Level) Entry {
	return Entry{Level: level, Message: b.text, Fields: b.fields}
}

func bindTemplate(template string, values []any) (BoundTemplate, bool) {
	var (
		text   strings.Builder
		fields []Field
		next   int
	)
	text.Grow(len(template))
	for i := 0; i < len(template); {
		c := template[i]
		switch {
		case c == '{' && i+1 < len(template) && template[i+1] == '{':
			text.WriteByte('{')
			i += 2
		case c == '}' && i+1 < len(template) && template[i+1] == '}':
			text.WriteByte('}')
			i += 2
		case c == '{':
			end := strings.IndexByte(template[i+1:], '}')
			if end < 0 {
				return BoundTemplate{}, false
			}
			name := template[i+1 : i+1+end]
			if !validPlaceholder(name) {
				return BoundTemplate{}, false
			}
			if next >= len(values) {
				return BoundTemplate{}, false
			}
			f := fieldOf(name, values[next])
			fields = append(fields, f)
			text.WriteString(fieldText(f))
			next++
			i += end + 2
		case c == '}':
			return BoundTemplate{}, false
		default:
			text.WriteByte(c)
			i++
		}
	}
	if next != len(values) {
		return BoundTemplate{}, false
	}
	return BoundTemplate{text: text.String(), fields: fields}, true
}

func validPlaceholder(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '_':
		default:
			return false
		}
	}
	return true
}

// fieldOf picks the tightest Field kind for a bound value.
func fieldOf(k string, v any) Field {
	switch t := v.(type) {
	case string:
		return FStr(k, t)
	case int:
		return FInt(k, int64(t))
	case int64:
		return FInt(k, t)
	case uint64:
		return FUint(k, t)
	case float64:
		return FFloat(k, t)
	case bool:
		return FBool(k, t)
	case time.Duration:
		return FDur(k, t)
	case time.Time:
		return FTime(k, t)
	case error:
		return FErr(k, t)
	case []byte:
		return FBytes(k, t)
	default:
		return FAny(k, v)
	}
}

func fieldText(f Field) string {
	switch f.Kind {
	case KindString:
		return f.Str
	case KindInt64:
		return strconv.FormatInt(f.Int64, 10)
	case KindUint64:
		return strconv.FormatUint(f.Uint64, 10)
	case KindFloat64:
		return strconv.FormatFloat(f.Float64, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(f.Bool)
	case KindDuration:
		return f.Dur.String()
	case KindTime:
		return f.Time.Format(time.RFC3339Nano)
	case KindError:
		if f.Err == nil {
			return ""
		}
		return f.Err.Error()
	case KindBytes:
		return string(f.Bytes)
	default:
		return fmt.Sprint(f.Any)
	}
}
