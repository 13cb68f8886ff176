package rule

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/cfnamer/cfnamer/internal/config"
)

// Converter transforms a name fragment, optionally consulting the pass
// configuration. Converters must be pure: same inputs, same output.
type Converter func(s string, cfg config.Config) string

// Identity returns its input unchanged. The default name converter.
func Identity(s string, _ config.Config) string {
	return s
}

// Kebab converts a logical identifier from its native casing into a
// lowercase hyphen-delimited form. Word boundaries come from case
// transitions and from runs of non-alphanumeric separators:
//
//	"ProcessOrder"  -> "process-order"
//	"HTTPListener"  -> "http-listener"
//	"My_Data.Store" -> "my-data-store"
//	"S3Backup"      -> "s3-backup"
//
// Input is NFC-normalized before case analysis so composed and decomposed
// forms of the same identifier produce the same name.
func Kebab(s string, _ config.Config) string {
	runes := []rune(norm.NFC.String(s))

	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = nil
		}
	}

	for i, r := range runes {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
		case unicode.IsUpper(r):
			if len(cur) > 0 {
				prev := runes[i-1]
				// New word at lower->upper and digit->upper transitions,
				// and at the last upper of an acronym run (HTTPServer).
				acronymEnd := unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || acronymEnd {
					flush()
				}
			}
			cur = append(cur, unicode.ToLower(r))
		default:
			cur = append(cur, unicode.ToLower(r))
		}
	}
	flush()

	return strings.Join(words, "-")
}

// BucketSafe substitutes characters S3 rejects in bucket names. Applied to
// the full prefixed name, so it also cleans up prefixes containing "_" or ".".
func BucketSafe(s string, _ config.Config) string {
	s = strings.ReplaceAll(s, "_", "-")
	return strings.ReplaceAll(s, ".", "-")
}

// functionSuffix is the logical-id suffix the host framework appends to
// callable function resources.
const functionSuffix = "LambdaFunction"

// FunctionShortName strips the trailing "LambdaFunction" token from a
// function's logical id before kebab conversion, when enabled by
// cfg.StripFunctionSuffix. A logical id consisting of nothing but the
// suffix is left alone so the name never collapses to the bare prefix.
func FunctionShortName(s string, cfg config.Config) string {
	if cfg.StripFunctionSuffix && s != functionSuffix && strings.HasSuffix(s, functionSuffix) {
		s = strings.TrimSuffix(s, functionSuffix)
	}
	return Kebab(s, cfg)
}
