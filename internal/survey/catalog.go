package survey

// Kind describes how a question is answered and persisted.
type Kind string

const (
	KindChoice Kind = "choice"
	KindScale  Kind = "scale"
	KindText   Kind = "text"
)

// OtherOption is the ocio_interno option that unlocks the free-text follow-up.
const OtherOption = "Otro"

// FreeTextMaxRunes caps the only free-text answer.
const FreeTextMaxRunes = 120

// Question is one entry of the questionnaire. Choice answers are persisted as
// the 1-based index of the selected option.
type Question struct {
	Key     string
	Label   string
	Kind    Kind
	Options []string
	Min     int
	Max     int
	Default int
	// Widget is "select" or "radio" for choices; scales always render a range input.
	Widget string
	// DependsOn names the choice question whose OtherOption reveals this one.
	DependsOn string
}

var questions = []Question{
	{
		Key:     "sexo",
		Label:   "1) Sexo",
		Kind:    KindChoice,
		Widget:  "select",
		Options: []string{"Masculino", "Femenino", "Otro"},
	},
	{
		Key:     "filtro_mixto",
		Label:   "2) ¿Estarías dispuesto/a a compartir habitación con alguien de distinto sexo?",
		Kind:    KindChoice,
		Widget:  "radio",
		Options: []string{"Sí", "No", "Me da exactamente igual"},
	},
	{Key: "edad", Label: "3) Edad", Kind: KindScale, Min: 17, Max: 35, Default: 22},
	{
		Key:     "horario",
		Label:   "4) Horario: Eres más...",
		Kind:    KindChoice,
		Widget:  "radio",
		Options: []string{"Madrugador", "Nocturno"},
	},
	{
		Key:    "lugar_estudio",
		Label:  "5) ¿Dónde prefieres estudiar habitualmente?",
		Kind:   KindChoice,
		Widget: "select",
		Options: []string{
			"En mi habitación en silencio total",
			"En la sala de estudio de la residencia",
			"En bibliotecas públicas o facultad",
			"Con música o ruido ambiente",
		},
	},
	{Key: "socializacion", Label: "6) ¿Cómo de social te consideras?", Kind: KindScale, Min: 1, Max: 10, Default: 5},
	{
		Key:    "fines_semana",
		Label:  "7) ¿Sueles quedarte los fines de semana?",
		Kind:   KindChoice,
		Widget: "radio",
		Options: []string{
			"Sí, casi siempre",
			"A veces",
			"No, suelo volver a mi casa familiar",
		},
	},
	{
		Key:    "actividades_extra",
		Label:  "8) ¿Cómo de importante es para ti hacer planes fuera de la residencia?",
		Kind:   KindChoice,
		Widget: "radio",
		Options: []string{
			"Muy importante, no paro en casa",
			"Intermedio",
			"Soy muy casero, disfruto mi tiempo en la habitación",
		},
	},
	{
		Key:    "ocio_interno",
		Label:  "9) ¿Qué tipo de actividades te gustaría hacer en la residencia?",
		Kind:   KindChoice,
		Widget: "select",
		Options: []string{
			"Torneos de E-sports",
			"Cenas temáticas",
			"Maratón de series-películas",
			"Tardes de juegos de mesa",
			OtherOption,
		},
	},
	{
		Key:       "ocio_interno_otro",
		Label:     "9.b) Especifica otra actividad",
		Kind:      KindText,
		DependsOn: "ocio_interno",
	},
	{Key: "orden_limpieza", Label: "10) ¿Qué tan importante es para ti el orden y la limpieza?", Kind: KindScale, Min: 1, Max: 10, Default: 5},
	{Key: "ruido_tolerancia", Label: "11) ¿Cuál es tu nivel de tolerancia al ruido cuando intentas descansar?", Kind: KindScale, Min: 1, Max: 10, Default: 5},
	{
		Key:    "tabaco_vapeo",
		Label:  "12) ¿Fumas o vapeas?",
		Kind:   KindChoice,
		Widget: "radio",
		Options: []string{
			"No, y me molesta que lo hagan en la habitación",
			"No, pero me da igual si el otro lo hace",
			"Sí, fumo o vapeo",
		},
	},
	{
		Key:    "visitas",
		Label:  "13) ¿Cómo te sientes respecto a traer amigos o a tu pareja a la habitación?",
		Kind:   KindChoice,
		Widget: "radio",
		Options: []string{
			"Prefiero que sea un lugar privado solo para nosotros",
			"Está bien de vez en cuando, avisando antes",
			"Me encanta que haya gente, mi cuarto está siempre abierto",
		},
	},
	{
		Key:    "compartir_gastos",
		Label:  "14) A la hora de comprar cosas básicas (papel higiénico, jabón...)...",
		Kind:   KindChoice,
		Widget: "radio",
		Options: []string{
			"Prefiero que cada uno tenga lo suyo estrictamente",
			"Me gusta comprar a medias y compartir",
			"No me importa invitar o que me cojan cosas si hay confianza",
		},
	},
	{
		Key:    "temperatura",
		Label:  "15) ¿Eres más bien friolero o caluroso?",
		Kind:   KindChoice,
		Widget: "radio",
		Options: []string{
			"Muy friolero, prefiero ventana cerrada",
			"Neutro",
			"Muy caluroso, necesito ventilar y dormir fresco",
		},
	},
}

// Outcome is the closing 0..10 rating of the cohabitation.
var Outcome = Question{
	Key:     "target_nota",
	Label:   "16) Del 0 al 10, ¿cómo evaluarías la convivencia general con tu compañero/a?",
	Kind:    KindScale,
	Min:     0,
	Max:     10,
	Default: 7,
}

// Questions returns the answer questions in form order, excluding Outcome.
func Questions() []Question {
	out := make([]Question, len(questions))
	copy(out, questions)
	return out
}

// Lookup returns the question with the given key.
func Lookup(key string) (Question, bool) {
	for _, q := range questions {
		if q.Key == key {
			return q, true
		}
	}
	if key == Outcome.Key {
		return Outcome, true
	}
	return Question{}, false
}

// Fields returns the answer keys in persisted order.
func Fields() []string {
	out := make([]string, len(questions))
	for i, q := range questions {
		out[i] = q.Key
	}
	return out
}
