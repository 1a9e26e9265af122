package server

const (
	// Regular colors
	Black  = "\033[30m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Blue   = "\033[34m"
	Purple = "\033[35m"
	Cyan   = "\033[36m"
	White  = "\033[37m"
	Gray   = "\033[90m"

	// Inverse (reverse video) colors
	InverseBlack  = "\033[7;30m"
	InverseRed    = "\033[7;31m"
	InverseGreen  = "\033[7;32m"
	InverseYellow = "\033[7;33m"
	InverseBlue   = "\033[7;34m"
	InversePurple = "\033[7;35m"
	InverseCyan   = "\033[7;36m"
	InverseWhite  = "\033[7;37m"

	ResetColor = "\033[0m"
)

var methodColors = map[string]string{
	"GET":     Green,
	"POST":    Blue,
	"PUT":     Yellow,
	"DELETE":  Red,
	"PATCH":   Purple,
	"OPTIONS": Cyan,
	"HEAD":    Gray,
}
