package model

// Choice is one entry of a fixed profile selection list
type Choice struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

var GenderChoices = []Choice{
	{Value: "m", Label: "Masculino"},
	{Value: "f", Label: "Feminino"},
	{Value: "o", Label: "Otro"},
}

var BirthRangeChoices = []Choice{
	{Value: "1946-1964", Label: "1946-1964"},
	{Value: "1965-1980", Label: "1965-1980"},
	{Value: "1981-1996", Label: "1981-1996"},
	{Value: "1997-2012", Label: "1997-2012"},
}

var PositionChoices = []Choice{
	{Value: "analista", Label: "Analista"},
	{Value: "asesor", Label: "Asesor"},
	{Value: "auxiliar", Label: "Auxiliar"},
	{Value: "contralor", Label: "Contralor"},
	{Value: "coordinador", Label: "Coordinador"},
	{Value: "director", Label: "Director"},
	{Value: "director_general", Label: "Director General"},
	{Value: "director_general_adjunto", Label: "Director General Adjunto"},
	{Value: "enlace_informacion", Label: "Enlace de Información"},
	{Value: "manager", Label: "Gerente"},
	{Value: "inspector", Label: "Inspector"},
	{Value: "investigador", Label: "Investigador"},
	{Value: "jefe_departamento", Label: "Jefe de Departamento"},
	{Value: "operator", Label: "Operador"},
	{Value: "secretario_ejecutivo", Label: "Secretario Ejecutivo"},
	{Value: "subdirector", Label: "Subdirector"},
	{Value: "subsecretario", Label: "Subsecretario"},
	{Value: "supervisor", Label: "Supervisor"},
	{Value: "other", Label: "Otro"},
}

// IsChoice reports whether value is one of choices
func IsChoice(choices []Choice, value string) bool {
	for _, c := range choices {
		if c.Value == value {
			return true
		}
	}
	return false
}
