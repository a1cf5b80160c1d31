package builder

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/footprint-tools/argutil/internal/config"
	"github.com/footprint-tools/argutil/internal/domain"
)

// Interpolate replaces {name}, {name!conv} and {name:spec} fields with values
// from env. Doubled braces stand for literal ones. spec follows
// [[fill]align][width][.precision][type] with align one of "<", ">", "^" and
// type one of "s", "d", "f".
func Interpolate(text string, env Env) (string, error) {
	if !strings.ContainsAny(text, "{}") {
		return text, nil
	}

	var sb strings.Builder
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch c {
		case '{':
			if i+1 < len(text) && text[i+1] == '{' {
				sb.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(text[i+1:], '}')
			if end < 0 {
				return "", domain.SchemaError("single '{' encountered in %q", text)
			}
			field := text[i+1 : i+1+end]
			out, err := formatField(field, env)
			if err != nil {
				return "", err
			}
			sb.WriteString(out)
			i += end + 1
		case '}':
			if i+1 < len(text) && text[i+1] == '}' {
				sb.WriteByte('}')
				i++
				continue
			}
			return "", domain.SchemaError("single '}' encountered in %q", text)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String(), nil
}

var specPattern = regexp.MustCompile(`^(?:(.)?([<>^]))?(\d+)?(?:\.(\d+))?([sdf])?$`)

func formatField(field string, env Env) (string, error) {
	name, spec, _ := strings.Cut(field, ":")
	name, conv, hasConv := strings.Cut(name, "!")

	v, ok := env[name]
	if !ok {
		return "", domain.NotFoundError("no value for {%s}", field)
	}

	m := specPattern.FindStringSubmatch(spec)
	if m == nil {
		return "", domain.SchemaError("invalid format spec %q in {%s}", spec, field)
	}
	fill, align, width, precision, verb := m[1], m[2], m[3], m[4], m[5]

	text := config.FormatValue(v)
	switch {
	case hasConv && conv == "r":
		if s, isString := v.(string); isString {
			text = "'" + s + "'"
		}
	case hasConv && conv != "s":
		return "", domain.SchemaError("unknown conversion !%s in {%s}", conv, field)
	}

	numeric := false
	switch n := v.(type) {
	case int, int64:
		numeric = true
		if verb == "f" {
			text = strconv.FormatFloat(toFloat(n), 'f', precisionOr(precision, 6), 64)
		}
	case float64:
		numeric = true
		if verb == "d" {
			return "", domain.SchemaError("format d needs an integer in {%s}", field)
		}
		if verb == "f" || precision != "" {
			text = strconv.FormatFloat(n, 'f', precisionOr(precision, 6), 64)
		}
	default:
		if verb == "d" || verb == "f" {
			return "", domain.SchemaError("format %s needs a number in {%s}", verb, field)
		}
		if precision != "" {
			if p := precisionOr(precision, 0); p < len(text) {
				text = text[:p]
			}
		}
	}

	if width == "" {
		return text, nil
	}
	w, _ := strconv.Atoi(width)
	pad := w - len([]rune(text))
	if pad <= 0 {
		return text, nil
	}
	if fill == "" {
		fill = " "
	}
	if align == "" {
		align = "<"
		if numeric {
			align = ">"
		}
	}
	switch align {
	case ">":
		return strings.Repeat(fill, pad) + text, nil
	case "^":
		left := pad / 2
		return strings.Repeat(fill, left) + text + strings.Repeat(fill, pad-left), nil
	default:
		return text + strings.Repeat(fill, pad), nil
	}
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

func precisionOr(precision string, def int) int {
	if p, err := strconv.Atoi(precision); err == nil {
		return p
	}
	return def
}
