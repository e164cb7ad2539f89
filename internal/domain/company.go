package domain

type Company struct {
	OGRN     string
	INN      string
	KPP      string
	Name     string
	FullName string

	CodeOKVED string
	NameOKVED string
	TypeOKVED string // "Осн" for the primary classification
}
