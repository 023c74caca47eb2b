package config

import "fmt"

const (
	DefaultCourseName = "Pemrograman Berbasis Objek"
	DefaultLogoURL    = "https://github.com/GabrielDFA/Tia-Chatbot/blob/e0f2ec150495c0298da9b9e9ec1f50a71e41333b/Asset/logo.png?raw=true"
)

// GetListenAddr returns the address the HTTP server binds to
func GetListenAddr() string {
	return fmt.Sprintf(":%d", parseEnvInt("PORT", 8080))
}

// GetCourseName returns the course the assistant answers questions about
func GetCourseName() string {
	return GetEnvOrDefault("COURSE_NAME", DefaultCourseName)
}

func GetLogoURL() string {
	return GetEnvOrDefault("LOGO_URL", DefaultLogoURL)
}
