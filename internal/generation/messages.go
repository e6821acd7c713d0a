package generation

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	msgSuccess  = "✅ Generated %d images successfully!"
	msgNoImages = "❌ Please upload at least one image of the child."
	msgFailure  = "❌ Error generating images: %s\n\nTips: Make sure your images have clear faces and the prompt includes 'img' after the subject."
)

var supportedLocales = []language.Tag{
	language.English,
	language.Indonesian,
}

var localeMatcher = language.NewMatcher(supportedLocales)

func init() {
	id := language.Indonesian
	_ = message.SetString(id, msgSuccess, "✅ Berhasil membuat %d gambar!")
	_ = message.SetString(id, msgNoImages, "❌ Silakan unggah setidaknya satu foto anak.")
	_ = message.SetString(id, msgFailure, "❌ Gagal membuat gambar: %s\n\nTips: Pastikan wajah pada foto terlihat jelas dan prompt memuat 'img' setelah subjek.")
}

// MatchLocale maps an arbitrary locale string, such as an Accept-Language
// value, to a supported locale code. Unknown input yields "en".
func MatchLocale(locale string) string {
	tags, _, err := language.ParseAcceptLanguage(locale)
	if err != nil || len(tags) == 0 {
		return language.English.String()
	}
	_, idx, _ := localeMatcher.Match(tags...)
	return supportedLocales[idx].String()
}

func printer(locale string) *message.Printer {
	return message.NewPrinter(language.Make(MatchLocale(locale)))
}

func successMessage(locale string, n int) string {
	return printer(locale).Sprintf(msgSuccess, n)
}

func noImagesMessage(locale string) string {
	return printer(locale).Sprintf(msgNoImages)
}

func failureMessage(locale string, err error) string {
	return printer(locale).Sprintf(msgFailure, err.Error())
}
