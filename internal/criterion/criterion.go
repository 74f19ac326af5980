package criterion

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidCriterion is returned when the input matches none of the
// supported criterion forms. Callers should surface it before making any
// network call.
var ErrInvalidCriterion = errors.New("criterion must be an email address, a domain or a company name")

// Kind classifies how a search criterion was interpreted.
type Kind int

const (
	KindEmail Kind = iota
	KindDomain
	KindCompany
)

// String returns the kind name used in logs and tool output.
func (k Kind) String() string {
	switch k {
	case KindEmail:
		return "email"
	case KindDomain:
		return "domain"
	case KindCompany:
		return "company"
	default:
		return "unknown"
	}
}

// Criterion is a validated sender criterion ready to be turned into a Gmail
// search predicate.
type Criterion struct {
	Kind  Kind
	Value string
}

var (
	emailPattern   = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	domainPattern  = regexp.MustCompile(`^[a-zA-Z0-9]+([-.][a-zA-Z0-9]+)*\.[a-zA-Z]{2,}$`)
	companyPattern = regexp.MustCompile(`^[a-zA-Z0-9]+(?:[ -][a-zA-Z0-9]+)*$`)
)

// companySuffixes are the domain endings tried when a bare company name is
// given. Matching by name is a best-effort heuristic and deliberately
// isolated in this package.
var companySuffixes = []string{".com", ".in", ".co.in", ".net", ".org", ".io"}

// Resolve validates raw input and classifies it. The forms are tried in
// order: email address, then domain, then company name. Surrounding
// whitespace is ignored.
func Resolve(raw string) (Criterion, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return Criterion{}, fmt.Errorf("empty criterion: %w", ErrInvalidCriterion)
	}

	switch {
	case emailPattern.MatchString(value):
		return Criterion{Kind: KindEmail, Value: value}, nil
	case domainPattern.MatchString(value):
		return Criterion{Kind: KindDomain, Value: value}, nil
	case companyPattern.MatchString(value):
		return Criterion{Kind: KindCompany, Value: value}, nil
	}
	return Criterion{}, fmt.Errorf("%q: %w", raw, ErrInvalidCriterion)
}

// Predicate renders the Gmail search predicate for this criterion. The
// caller composes it with further terms such as "has:attachment".
func (c Criterion) Predicate() string {
	switch c.Kind {
	case KindEmail:
		return "from:" + c.Value
	case KindDomain:
		return "from:*@" + c.Value
	case KindCompany:
		base := normalizeCompany(c.Value)
		terms := make([]string, 0, len(companySuffixes))
		for _, suffix := range companySuffixes {
			terms = append(terms, "from:*@"+base+suffix)
		}
		return strings.Join(terms, " OR ")
	default:
		return ""
	}
}

// normalizeCompany collapses a company name into a bare domain label:
// lowercase with spaces and hyphens removed.
func normalizeCompany(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if r == ' ' || r == '-' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
