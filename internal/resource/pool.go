package resource

// DefaultSpecChar is the special character pool used when none is configured.
const DefaultSpecChar = "!@#$%^&*()_+"

var letterPools = map[string][2]string{
	"en": {"ABCDEFGHIJKLMNOPQRSTUVWXYZ", "abcdefghijklmnopqrstuvwxyz"},
	"ru": {"АБВГДЕЁЖЗИЙКЛМНОПРСТУФХЦЧШЩЪЫЬЭЮЯ", "абвгдеёжзийклмнопрстуфхцчшщъыьэюя"},
}

const digits = "0123456789"

// PoolFlags select the character classes of a random character pool.
type PoolFlags struct {
	UpperCase   bool
	LowerCase   bool
	Numeric     bool
	SpecialChar bool
}

// CharPool returns the random character pool for lang. Locales without their
// own alphabet use the English one. An empty specChar falls back to
// DefaultSpecChar when SpecialChar is set.
func CharPool(lang string, flags PoolFlags, specChar string) []string {
	letters, ok := letterPools[lang]
	if !ok {
		letters = letterPools["en"]
	}
	var src string
	if flags.UpperCase {
		src += letters[0]
	}
	if flags.LowerCase {
		src += letters[1]
	}
	if flags.Numeric {
		src += digits
	}
	if flags.SpecialChar {
		if specChar == "" {
			specChar = DefaultSpecChar
		}
		src += specChar
	}
	pool := make([]string, 0, len(src))
	for _, r := range src {
		pool = append(pool, string(r))
	}
	return dedupe(pool)
}
