package actions

// FallbackIcon se muestra cuando la acción quedó sin template
// (el template fue borrado después de registrarla).
const FallbackIcon = "📝"

// TemplateInfo es lo mínimo del template que necesita la vista.
// Copia local para no importar el módulo templates desde acá.
type TemplateInfo struct {
	Name string
	Icon string
}

// View es la acción enriquecida que consume la UI: nombre del usuario
// que la registró y nombre/glifo del template (o fallback).
type View struct {
	Action

	UserName     string
	TemplateName string
	TemplateIcon string
}

// BuildViews arma las vistas a partir de las acciones crudas y los
// lookups ya resueltos (perfiles y templates). Mantiene el orden de entrada.
func BuildViews(items []Action, names map[string]string, tpls map[string]TemplateInfo) []View {
	out := make([]View, 0, len(items))
	for _, a := range items {
		v := View{
			Action:       a,
			UserName:     names[a.UserID],
			TemplateIcon: FallbackIcon,
		}

		if a.TemplateID != nil {
			if t, ok := tpls[*a.TemplateID]; ok {
				v.TemplateName = t.Name
				v.TemplateIcon = t.Icon
			}
		}

		out = append(out, v)
	}
	return out
}

// TemplateIDs junta los template ids no-nil, sin duplicados.
func TemplateIDs(items []Action) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0)
	for _, a := range items {
		if a.TemplateID == nil {
			continue
		}
		if _, ok := seen[*a.TemplateID]; ok {
			continue
		}
		seen[*a.TemplateID] = struct{}{}
		out = append(out, *a.TemplateID)
	}
	return out
}

// UserIDs junta los user ids de las acciones, sin duplicados.
func UserIDs(items []Action) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0)
	for _, a := range items {
		if _, ok := seen[a.UserID]; ok {
			continue
		}
		seen[a.UserID] = struct{}{}
		out = append(out, a.UserID)
	}
	return out
}
