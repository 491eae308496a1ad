package service

import (
	"fmt"
	"strings"
	"time"

	agendadomain "agenda/internal/services/agenda/domain"
)

// All assistant copy is Spanish: it answers the agenda office staff

const replyFault = "😔 Lo siento, ocurrió un error al procesar tu consulta. Intenta de nuevo más tarde."

const replyBadDate = "No pude entender la fecha. Puedes usar formatos como:\n" +
	"• 15/01/2024\n• 15 de enero\n• 2024-01-15"

const replyNoSearchTerms = "¿Qué eventos específicos buscas? Puedes mencionar nombres, lugares o responsables."

const replyHelp = `🤖 **¡Hola! Soy tu asistente de agenda**

**📅 Consultas por fecha:**
• "¿Qué eventos hay hoy?"
• "¿Qué tiene el gobernador mañana?"
• "Eventos de esta semana"
• "Agenda del próximo mes"
• "¿Qué eventos hay el 15/01/2024?"
• "Eventos del 25 de enero"

**📍 Consultas por municipio:**
• "Eventos en Tuxtla Gutiérrez"
• "¿Cuándo visitó San Cristóbal?"
• "Agenda en Tapachula"

**📊 Estadísticas:**
• "¿Cuántos eventos hay?"
• "Eventos del gobernador"
• "Eventos festivos"

**🔍 Búsqueda:**
• "Buscar eventos de educación"
• "Mostrar eventos en parque"

**📅 Formatos de fecha soportados:**
• dd/mm/yyyy → "15/01/2024"
• dd/mm → "15/01" (año actual)
• dd de mes → "15 de enero"
• yyyy-mm-dd → "2024-01-15"

¡Pregúntame cualquier cosa sobre la agenda!`

const replyFallback = `🤔 No entendí tu consulta. Puedes preguntarme:

• **Fechas**: "eventos de hoy", "agenda de mañana", "eventos del 15/01"
• **Lugares**: "eventos en Tuxtla", "visitas a San Cristóbal"
• **Estadísticas**: "cuántos eventos", "eventos del gobernador"
• **Búsqueda**: "buscar eventos de salud"

Escribe "ayuda" para ver todas las opciones disponibles.`

func attendanceLabel(a agendadomain.Attendance) (icon, label string) {
	if a.Principal {
		return "👤", "Gobernador"
	}
	return "🤝", "Representante"
}

// renderDayBlock is the per-event block used by date answers:
// local time of day, name, place, organizer, who covered it
func renderDayBlock(b *strings.Builder, e agendadomain.Event, loc *time.Location) {
	icon, label := attendanceLabel(e.Attendance)
	fmt.Fprintf(b, "🕐 **%s** - %s\n", e.StartsAt.In(loc).Format("15:04"), e.Name)
	fmt.Fprintf(b, "   📍 %s, %s\n", e.Place, e.Municipality)
	fmt.Fprintf(b, "   👤 %s\n", e.Organizer)
	fmt.Fprintf(b, "   %s %s\n", icon, label)
	if e.IsHoliday {
		b.WriteString("   🎉 Evento festivo\n")
	}
	b.WriteString("\n")
}

func renderDayEvents(header string, events []agendadomain.Event, loc *time.Location) string {
	var b strings.Builder
	b.WriteString(header)
	for _, e := range events {
		renderDayBlock(&b, e, loc)
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderMunicipalityEvents(name string, limit int, events []agendadomain.Event, loc *time.Location) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📍 **Eventos en %s** (últimos %d):\n\n", name, limit)
	for _, e := range events {
		_, label := attendanceLabel(e.Attendance)
		fmt.Fprintf(&b, "📅 **%s** - %s\n", e.StartsAt.In(loc).Format("02/01/2006 15:04"), e.Name)
		fmt.Fprintf(&b, "   📍 %s\n", e.Place)
		fmt.Fprintf(&b, "   👤 %s\n", e.Organizer)
		fmt.Fprintf(&b, "   🎯 %s\n\n", label)
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderSearchEvents(terms []string, events []agendadomain.Event, loc *time.Location) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔍 **Eventos encontrados** (relacionados con: %s):\n\n", strings.Join(terms, ", "))
	for _, e := range events {
		fmt.Fprintf(&b, "📅 **%s** - %s\n", e.StartsAt.In(loc).Format("02/01/2006 15:04"), e.Name)
		fmt.Fprintf(&b, "   📍 %s, %s\n", e.Place, e.Municipality)
		fmt.Fprintf(&b, "   👤 %s\n\n", e.Organizer)
	}
	return strings.TrimRight(b.String(), "\n")
}

// pct renders a one-decimal percentage, or a plain 0 over an empty table
func pct(part, total int) string {
	if total == 0 {
		return "0"
	}
	return fmt.Sprintf("%.1f", float64(part)/float64(total)*100)
}

func plural(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}
