package httpapi

import (
	"github.com/nexus-form/nexus/internal/reliability"
)

// storeErrorMessage turns a store failure into the text shown to the
// participant, with setup hints for the spreadsheet failures seen in practice.
func storeErrorMessage(err error) string {
	switch reliability.Classify(err) {
	case reliability.ConditionServiceDisabled:
		return "Google Sheets API está deshabilitada en tu proyecto de Google Cloud. " +
			"Actívala en https://console.cloud.google.com/apis/library/sheets.googleapis.com " +
			"y espera 1-5 minutos."
	case reliability.ConditionPermissionDenied:
		return "Permiso denegado al abrir el spreadsheet. Verifica que la service account " +
			"tiene acceso de Editor al Google Sheet."
	case reliability.ConditionWorksheetNotFound:
		return "No existe la pestaña configurada en `worksheet` dentro del Google Sheet. " +
			"Crea la pestaña o corrige el nombre."
	case reliability.ConditionTimeout:
		return "El almacenamiento tardó demasiado en responder. Inténtalo de nuevo en unos minutos."
	case reliability.ConditionTransient:
		return "El almacenamiento no está disponible en este momento. Inténtalo de nuevo en unos minutos."
	default:
		return err.Error()
	}
}
