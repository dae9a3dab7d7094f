package models

// CategoryAll - синтетическое значение фильтра "все категории"
const CategoryAll = "Todas"

// Categories - закрытый список категорий обращений
var Categories = []string{
	"Iluminação",
	"Limpeza urbana",
	"Via pública",
	"Sinalização",
	"Segurança",
	"Transporte público",
	"Meio ambiente",
	"Saúde pública",
	"Outros",
}

// IsCategory сообщает, входит ли значение в список категорий
func IsCategory(c string) bool {
	for _, known := range Categories {
		if known == c {
			return true
		}
	}
	return false
}

// IsAllCategories сообщает, означает ли значение фильтра отсутствие фильтра по категории
func IsAllCategories(c string) bool {
	return c == "" || c == CategoryAll || c == "all"
}
