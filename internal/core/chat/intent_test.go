package chat

import (
	"reflect"
	"testing"
	"time"
)

func TestClassifyPriority(t *testing.T) {
	c := NewClassifier()

	// a date outranks the municipality mentioned in the same message
	cl := c.Classify("eventos en tuxtla el 15/01/2024", wednesday)
	if cl.Intent != IntentDate {
		t.Fatalf("intent = %s, want date", cl.Intent)
	}
	if cl.Date == nil || *cl.Date != (Date{2024, time.January, 15}) {
		t.Fatalf("date = %+v", cl.Date)
	}

	// a municipality outranks a stat phrase
	cl = c.Classify("eventos del gobernador en tapachula", wednesday)
	if cl.Intent != IntentMunicipality || cl.Canonical != "Tapachula" {
		t.Fatalf("classification = %+v", cl)
	}
}

func TestClassifyDate(t *testing.T) {
	c := NewClassifier()

	cl := c.Classify("¿Qué eventos hay hoy?", wednesday)
	if cl.Intent != IntentDate || cl.Range == nil || cl.Range.Label != "hoy" {
		t.Fatalf("classification = %+v", cl)
	}

	cl = c.Classify("eventos del 31/02/2024", wednesday)
	if cl.Intent != IntentDate || !cl.DateErr || cl.Date != nil {
		t.Fatalf("impossible date classification = %+v", cl)
	}
}

func TestClassifyMunicipality(t *testing.T) {
	c := NewClassifier()

	// Alias must come back exactly as typed, accents and casing intact,
	// so replies can quote the user
	cases := []struct {
		msg       string
		alias     string
		canonical string
	}{
		{"Eventos en Tuxtla Gutiérrez", "Tuxtla Gutiérrez", "Tuxtla Gutiérrez"},
		{"eventos en tuxtla", "tuxtla", "Tuxtla Gutiérrez"},
		{"¿Cuándo visitó San Cristóbal?", "San Cristóbal", "San Cristóbal de las Casas"},
		{"agenda en comitan", "comitan", "Comitán de Domínguez"},
		{"eventos en comitán", "comitán", "Comitán de Domínguez"},
		{"visitas a Berriozábal", "Berriozábal", "Berriozábal"},
	}
	for _, tc := range cases {
		cl := c.Classify(tc.msg, wednesday)
		if cl.Intent != IntentMunicipality || cl.Alias != tc.alias || cl.Canonical != tc.canonical {
			t.Fatalf("Classify(%q) = %+v", tc.msg, cl)
		}
	}
}

func TestClassifyStats(t *testing.T) {
	c := NewClassifier()

	cases := []struct {
		msg  string
		kind StatKind
	}{
		{"¿Cuántos eventos hay?", StatTotal},
		{"total de eventos registrados", StatTotal},
		{"eventos del gobernador", StatPrincipal},
		{"¿dónde asistió el gobernador?", StatPrincipal},
		{"eventos del representante", StatDelegate},
		{"eventos festivos", StatHoliday},
		{"festividades", StatHoliday},
	}
	for _, tc := range cases {
		cl := c.Classify(tc.msg, wednesday)
		if cl.Intent != IntentStat || cl.Stat != tc.kind {
			t.Fatalf("Classify(%q) = %+v, want stat kind %d", tc.msg, cl, tc.kind)
		}
	}
}

func TestClassifySearch(t *testing.T) {
	c := NewClassifier()

	cl := c.Classify("buscar eventos de educación", wednesday)
	if cl.Intent != IntentSearch {
		t.Fatalf("intent = %s, want search", cl.Intent)
	}
	if !reflect.DeepEqual(cl.Terms, []string{"educacion"}) {
		t.Fatalf("terms = %v", cl.Terms)
	}

	// stopwords and short tokens produce an empty term list, not a crash
	cl = c.Classify("buscar eventos de el la", wednesday)
	if cl.Intent != IntentSearch || len(cl.Terms) != 0 {
		t.Fatalf("classification = %+v", cl)
	}
}

func TestClassifyHelpAndFallback(t *testing.T) {
	c := NewClassifier()

	for _, msg := range []string{"ayuda", "help", "¿qué puedes hacer?", "opciones"} {
		if cl := c.Classify(msg, wednesday); cl.Intent != IntentHelp {
			t.Fatalf("Classify(%q) = %s, want help", msg, cl.Intent)
		}
	}

	if cl := c.Classify("hola", wednesday); cl.Intent != IntentUnknown {
		t.Fatalf("Classify(hola) = %s, want unknown", cl.Intent)
	}
}

func TestFold(t *testing.T) {
	cases := map[string]string{
		"Comitán":        "comitan",
		"  ¿MAÑANA?  ":   "¿manana?",
		"Tuxtla":         "tuxtla",
		"San Cristóbal":  "san cristobal",
		"el próximo mes": "el proximo mes",
	}
	for in, want := range cases {
		if got := Fold(in); got != want {
			t.Fatalf("Fold(%q) = %q, want %q", in, got, want)
		}
	}
}
