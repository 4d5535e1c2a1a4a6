package lang

func init() {
	// No grammar: QML documents are handed to the scanner pre-parsed.
	Languages["qml"] = &Language{
		Name:       "qml",
		Extensions: []string{".qml"},
	}
}
