package chat

import "strings"

// Intent is what the user is asking the assistant for
type Intent int

const (
	IntentUnknown Intent = iota
	IntentDate
	IntentMunicipality
	IntentStat
	IntentSearch
	IntentHelp
)

func (i Intent) String() string {
	switch i {
	case IntentDate:
		return "date"
	case IntentMunicipality:
		return "municipality"
	case IntentStat:
		return "stat"
	case IntentSearch:
		return "search"
	case IntentHelp:
		return "help"
	default:
		return "unknown"
	}
}

// StatKind selects which statistic a stat intent asks for
type StatKind int

const (
	StatNone StatKind = iota
	StatTotal
	StatPrincipal // events the governor attended in person
	StatDelegate  // events covered by a representative
	StatHoliday
)

// Classification is the full read of one message: the winning intent plus
// whatever the matching stage extracted along the way
type Classification struct {
	Intent Intent

	// date intent
	Date    *Date      // exact date, when one parsed
	DateErr bool       // shaped like an exact date but unparseable
	Range   *DateRange // relative period

	// municipality intent
	Alias     string // the phrase as the user typed it, accents intact
	Canonical string // catalog name to look up

	// stat intent
	Stat StatKind

	// search intent
	Terms []string
}

type statPattern struct {
	kind    StatKind
	phrases []string
}

type aliasEntry struct {
	alias     string
	canonical string
}

// Classifier matches folded messages against its keyword and alias tables.
// Classification is first-match-wins in a fixed order: date, municipality,
// statistic, search, help, fallback
type Classifier struct {
	aliases []aliasEntry
	stats   []statPattern
	search  []string
	stop    map[string]struct{}
	help    []string
}

// NewClassifier builds the default classifier with the Chiapas alias table
func NewClassifier() *Classifier {
	stop := map[string]struct{}{}
	for _, w := range []string{
		"buscar", "encontrar", "ver", "mostrar", "eventos",
		"de", "con", "el", "la", "los", "las",
	} {
		stop[w] = struct{}{}
	}

	return &Classifier{
		// longer aliases first so "tuxtla gutierrez" wins over "tuxtla"
		aliases: []aliasEntry{
			{"tuxtla gutierrez", "Tuxtla Gutiérrez"},
			{"tuxtla", "Tuxtla Gutiérrez"},
			{"san cristobal de las casas", "San Cristóbal de las Casas"},
			{"san cristobal", "San Cristóbal de las Casas"},
			{"tapachula", "Tapachula"},
			{"comitan", "Comitán de Domínguez"},
			{"palenque", "Palenque"},
			{"arriaga", "Arriaga"},
			{"tonala", "Tonalá"},
			{"ocosingo", "Ocosingo"},
			{"villaflores", "Villaflores"},
			{"las margaritas", "Las Margaritas"},
			{"chiapa de corzo", "Chiapa de Corzo"},
			{"berriozabal", "Berriozábal"},
		},
		stats: []statPattern{
			{StatTotal, []string{"cuantos eventos", "total de eventos", "numero de eventos"}},
			{StatPrincipal, []string{"eventos del gobernador", "donde asistio el gobernador"}},
			{StatDelegate, []string{"eventos del representante", "donde fue el representante"}},
			{StatHoliday, []string{"eventos festivos", "festividades", "eventos especiales"}},
		},
		search: []string{"buscar", "encontrar", "ver", "mostrar", "eventos de", "eventos con"},
		stop:   stop,
		help:   []string{"ayuda", "help", "?", "que puedes hacer", "comandos", "opciones"},
	}
}

// Classify folds the message and resolves it to exactly one intent
func (c *Classifier) Classify(message string, today Date) Classification {
	msg := Fold(message)

	if cl, ok := c.classifyDate(msg, today); ok {
		return cl
	}
	for _, a := range c.aliases {
		if containsPhrase(msg, a.alias) {
			return Classification{
				Intent:    IntentMunicipality,
				Alias:     typedSpan(message, a.alias),
				Canonical: a.canonical,
			}
		}
	}
	for _, sp := range c.stats {
		for _, phrase := range sp.phrases {
			if containsPhrase(msg, phrase) {
				return Classification{Intent: IntentStat, Stat: sp.kind}
			}
		}
	}
	for _, phrase := range c.search {
		if containsPhrase(msg, phrase) {
			return Classification{Intent: IntentSearch, Terms: c.searchTerms(msg)}
		}
	}
	for _, phrase := range c.help {
		if containsPhrase(msg, phrase) {
			return Classification{Intent: IntentHelp}
		}
	}
	return Classification{Intent: IntentUnknown}
}

func (c *Classifier) classifyDate(msg string, today Date) (Classification, bool) {
	if HasExactDate(msg) {
		cl := Classification{Intent: IntentDate}
		if d, ok := ExtractDate(msg, today); ok {
			cl.Date = &d
		} else {
			cl.DateErr = true
		}
		return cl, true
	}
	if r, ok := RelativeRange(msg, today); ok {
		return Classification{Intent: IntentDate, Range: &r}, true
	}
	return Classification{}, false
}

// searchTerms extracts the useful tokens of a search message: stopwords and
// anything two runes or shorter are dropped
func (c *Classifier) searchTerms(msg string) []string {
	var terms []string
	for _, w := range strings.Fields(msg) {
		if _, skip := c.stop[w]; skip {
			continue
		}
		if len([]rune(w)) <= 2 {
			continue
		}
		terms = append(terms, w)
	}
	return terms
}

func containsPhrase(msg, phrase string) bool {
	return strings.Contains(msg, phrase)
}
