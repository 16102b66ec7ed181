package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "record", "field", "key", "expected").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "required":
			if data != nil {
				return data["record"] + " の必須フィールド " + data["field"] + " が不足しています"
			}
			return "必須フィールドが不足しています"
		case "unknown_key":
			if data != nil {
				return data["record"] + " に未知のフィールド " + data["key"] + " があります (" + data["expected"] + " のいずれかを期待)"
			}
			return "未知のキーです"
		case "coercion":
			if data != nil {
				return data["record"] + "." + data["field"] + " の値 " + data["value"] + " を変換できません"
			}
			return "型変換に失敗しました"
		case "invalid_type":
			return "型が不正です"
		case "parse_error":
			return "解析エラー"
		}
	default: // "en"
		switch code {
		case "required":
			if data != nil {
				return "missing required field " + data["field"] + " for " + data["record"]
			}
			return "required field missing"
		case "unknown_key":
			if data != nil {
				return "unknown field " + data["key"] + " for " + data["record"] + ", expected one of (" + data["expected"] + ")"
			}
			return "unknown key"
		case "coercion":
			if data != nil {
				return "in record " + data["record"] + ", cannot coerce " + data["value"] + " for field " + data["field"]
			}
			return "coercion failed"
		case "invalid_type":
			return "invalid type"
		case "parse_error":
			return "parse error"
		}
	}
	return code
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
