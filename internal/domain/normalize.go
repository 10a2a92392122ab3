package domain

// normalize.go: valores crudos del formulario → TradeInput canónico.
//
// Reglas:
//   - timeIn/timeOut son obligatorios y bloquean el envío si no parsean.
//   - Numéricos vacíos o malformados se omiten (modo permisivo) para tolerar
//     input suelto; StrictNumbers los convierte en InvalidFieldError.
//   - Enums: trim + upper; vacío → omitido. StrictEnums valida el conjunto.
//   - Un campo omitido nunca se convierte en cero: los opcionales son punteros.

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Nombres de campo crudos, tal como los envían los formularios.
const (
	FieldTimeIn          = "timeIn"
	FieldTimeOut         = "timeOut"
	FieldProfitLoss      = "profitLoss"
	FieldRunner          = "runner"
	FieldOptionType      = "optionType"
	FieldOutcomeColor    = "outcomeColor"
	FieldStrategy        = "strategy"
	FieldContractsCount  = "contractsCount"
	FieldDripPercent     = "dripPercent"
	FieldAmountLeveraged = "amountLeveraged"
)

// RawFields contiene los valores del usuario por nombre de campo.
type RawFields map[string]string

// TradeInput es el payload canónico de creación/edición. Un puntero nil
// significa "no enviado" y se omite del JSON.
type TradeInput struct {
	TimeIn          string        `json:"timeIn,omitempty"`
	TimeOut         string        `json:"timeOut,omitempty"`
	ProfitLoss      *float64      `json:"profitLoss,omitempty"`
	Runner          *bool         `json:"runner,omitempty"`
	OptionType      *OptionType   `json:"optionType,omitempty"`
	OutcomeColor    *OutcomeColor `json:"outcomeColor,omitempty"`
	Strategy        *Strategy     `json:"strategy,omitempty"`
	ContractsCount  *int          `json:"contractsCount,omitempty"`
	DripPercent     *float64      `json:"dripPercent,omitempty"`
	AmountLeveraged *float64      `json:"amountLeveraged,omitempty"`
}

// IsEmpty indica si no hay ningún campo presente.
func (in TradeInput) IsEmpty() bool {
	return in.TimeIn == "" && in.TimeOut == "" && in.ProfitLoss == nil &&
		in.Runner == nil && in.OptionType == nil && in.OutcomeColor == nil &&
		in.Strategy == nil && in.ContractsCount == nil && in.DripPercent == nil &&
		in.AmountLeveraged == nil
}

// NormalizeOptions endurece los defaults permisivos.
type NormalizeOptions struct {
	StrictNumbers bool // números no vacíos malformados fallan en vez de omitirse
	StrictEnums   bool // los enums deben pertenecer al conjunto permitido
}

var (
	reClock24   = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	reClock12   = regexp.MustCompile(`(?i)^(\d{1,2}):(\d{2})\s*(AM|PM)$`)
	reClockBare = regexp.MustCompile(`^(\d{3,4})$`)
)

// NormalizeTime devuelve raw como HH:MM de 24 horas con ceros. ok es false si
// el valor está vacío o no se reconoce; una forma reconocida con partes fuera
// de rango no pasa a probar la siguiente forma.
func NormalizeTime(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}

	if m := reClock24.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		mm, _ := strconv.Atoi(m[2])
		return clock(h, mm)
	}

	if m := reClock12.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		mm, _ := strconv.Atoi(m[2])
		if h < 1 || h > 12 {
			return "", false
		}
		switch strings.ToUpper(m[3]) {
		case "PM":
			if h != 12 {
				h += 12
			}
		case "AM":
			if h == 12 {
				h = 0
			}
		}
		return clock(h, mm)
	}

	if m := reClockBare.FindStringSubmatch(s); m != nil {
		padded := strings.Repeat("0", 4-len(m[1])) + m[1]
		h, _ := strconv.Atoi(padded[:2])
		mm, _ := strconv.Atoi(padded[2:])
		return clock(h, mm)
	}

	return "", false
}

func clock(h, mm int) (string, bool) {
	if h < 0 || h > 23 || mm < 0 || mm > 59 {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d", h, mm), true
}

// Normalize convierte los valores del formulario en un TradeInput. En modo
// por defecto el único error posible es *TimeFormatError en timeIn/timeOut.
func Normalize(raw RawFields, opts NormalizeOptions) (TradeInput, error) {
	var in TradeInput

	for _, f := range []struct {
		name string
		dst  *string
	}{
		{FieldTimeIn, &in.TimeIn},
		{FieldTimeOut, &in.TimeOut},
	} {
		v, ok := NormalizeTime(raw[f.name])
		if !ok {
			return TradeInput{}, &TimeFormatError{Field: f.name, Value: raw[f.name]}
		}
		*f.dst = v
	}

	runner := parseRunner(raw[FieldRunner])
	in.Runner = &runner

	var err error
	if in.ProfitLoss, err = numberField(raw, FieldProfitLoss, opts); err != nil {
		return TradeInput{}, err
	}
	if in.DripPercent, err = numberField(raw, FieldDripPercent, opts); err != nil {
		return TradeInput{}, err
	}
	if in.AmountLeveraged, err = numberField(raw, FieldAmountLeveraged, opts); err != nil {
		return TradeInput{}, err
	}
	if in.ContractsCount, err = countField(raw, FieldContractsCount, opts); err != nil {
		return TradeInput{}, err
	}

	if v := upperOrEmpty(raw[FieldOptionType]); v != "" {
		ot := OptionType(v)
		if opts.StrictEnums && !ot.Valid() {
			return TradeInput{}, &InvalidFieldError{Field: FieldOptionType, Value: raw[FieldOptionType], Reason: "must be CALL or PUT"}
		}
		in.OptionType = &ot
	}
	if v := upperOrEmpty(raw[FieldOutcomeColor]); v != "" {
		oc := OutcomeColor(v)
		if opts.StrictEnums && !oc.Valid() {
			return TradeInput{}, &InvalidFieldError{Field: FieldOutcomeColor, Value: raw[FieldOutcomeColor], Reason: "must be GREEN or RED"}
		}
		in.OutcomeColor = &oc
	}
	if v := upperOrEmpty(raw[FieldStrategy]); v != "" {
		st := Strategy(v)
		if opts.StrictEnums && !st.Valid() {
			return TradeInput{}, &InvalidFieldError{Field: FieldStrategy, Value: raw[FieldStrategy], Reason: "must be ORB15, ORB5 or 3CONF"}
		}
		in.Strategy = &st
	}

	return in, nil
}

// ApplyCreateDefaults rellena lo que el formulario de alta preselecciona y
// comprueba los campos sin los que un trade nuevo no existe.
func (in TradeInput) ApplyCreateDefaults() (TradeInput, error) {
	if in.TimeIn == "" || in.TimeOut == "" || in.ProfitLoss == nil {
		return TradeInput{}, fmt.Errorf("timeIn, timeOut, and profitLoss are required: %w", ErrInvalidInput)
	}
	if in.Runner == nil {
		r := false
		in.Runner = &r
	}
	if in.OptionType == nil {
		v := OptionCall
		in.OptionType = &v
	}
	if in.OutcomeColor == nil {
		v := OutcomeGreen
		in.OutcomeColor = &v
	}
	if in.Strategy == nil {
		v := StrategyORB15
		in.Strategy = &v
	}
	return in, nil
}

// numberField parsea un campo float. Vacíos y no finitos son "no enviados";
// los malformados también, salvo con StrictNumbers.
func numberField(raw RawFields, name string, opts NormalizeOptions) (*float64, error) {
	s := strings.TrimSpace(raw[name])
	if s == "" {
		return nil, nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		if opts.StrictNumbers {
			return nil, &InvalidFieldError{Field: name, Value: raw[name], Reason: "must be a finite number"}
		}
		return nil, nil
	}
	return &n, nil
}

// countField es numberField restringido a enteros no negativos.
func countField(raw RawFields, name string, opts NormalizeOptions) (*int, error) {
	n, err := numberField(raw, name, opts)
	if err != nil || n == nil {
		return nil, err
	}
	if *n < 0 || *n != math.Trunc(*n) || *n > math.MaxInt32 {
		if opts.StrictNumbers {
			return nil, &InvalidFieldError{Field: name, Value: raw[name], Reason: "must be a non-negative whole number"}
		}
		return nil, nil
	}
	c := int(*n)
	return &c, nil
}

func parseRunner(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "yes", "y":
		return true
	}
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	return err == nil && b
}

func upperOrEmpty(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
