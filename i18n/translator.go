package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message; the "detail" key
// is appended to the base message when present.
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		"parse_error":       "malformed JSON",
		"duplicate_key":     "duplicate key",
		"invalid_type":      "invalid schema",
		"unknown_type":      "unknown type name",
		"missing_attribute": "required attribute missing",
		"invalid_attribute": "invalid attribute value",
		"invalid_name":      "invalid name",
		"duplicate_name":    "name already defined",
		"invalid_default":   "default value does not match field type",
		"missing_field":     "required field missing",
		"type_mismatch":     "value does not match declared type",
		"unknown_key":       "unknown field",
		"truncated":         "unexpected end of input",
		"overflow":          "integer overflow",
		"invalid_length":    "invalid length",
		"invalid_value":     "invalid value",
		"too_big":           "input too large",
	},
	"ja": {
		"parse_error":       "JSONの解析エラー",
		"duplicate_key":     "キーが重複しています",
		"invalid_type":      "スキーマが不正です",
		"unknown_type":      "未知の型名です",
		"missing_attribute": "必須属性が不足しています",
		"invalid_attribute": "属性値が不正です",
		"invalid_name":      "名前が不正です",
		"duplicate_name":    "名前は既に定義されています",
		"invalid_default":   "デフォルト値がフィールドの型と一致しません",
		"missing_field":     "必須フィールドが不足しています",
		"type_mismatch":     "値が宣言された型と一致しません",
		"unknown_key":       "未知のフィールドです",
		"truncated":         "入力が途中で終了しました",
		"overflow":          "整数がオーバーフローしました",
		"invalid_length":    "長さが不正です",
		"invalid_value":     "値が不正です",
		"too_big":           "入力が大きすぎます",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := dictionaries[t.lang][code]
	if !ok {
		msg = code
	}
	if d := data["detail"]; d != "" {
		msg += ": " + d
	}
	return msg
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

// Detail is shorthand for T(code, {"detail": detail}).
func Detail(code, detail string) string {
	if detail == "" {
		return T(code, nil)
	}
	return T(code, map[string]string{"detail": detail})
}
