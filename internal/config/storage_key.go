package config

// StorageKeyStruct names the keys persisted by the application.
type StorageKeyStruct struct {
	// Roster holds the whole student roster as one JSON array.
	Roster string
}

var StorageKey = &StorageKeyStruct{
	Roster: "students",
}
