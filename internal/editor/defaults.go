package editor

// Style values new objects start with.
const (
	DefaultFillColor   = "rgba(0,0,0,1)"
	DefaultStrokeColor = "rgba(0,0,0,1)"
	DefaultStrokeWidth = 2
	DefaultFontFamily  = "Arial"
	DefaultFontSize    = 32
	DefaultFontWeight  = 400
	DefaultFontStyle   = "normal"
	DefaultTextAlign   = "left"
	DefaultOpacity     = 1
)

// Defaults is the session's style state. Style commands update it when
// nothing is selected; creation commands read it.
type Defaults struct {
	FillColor       string    `json:"fillColor"`
	StrokeColor     string    `json:"strokeColor"`
	StrokeWidth     float64   `json:"strokeWidth"`
	StrokeDashArray []float64 `json:"strokeDashArray"`
	FontFamily      string    `json:"fontFamily"`
	FontSize        float64   `json:"fontSize"`
	FontWeight      int       `json:"fontWeight"`
	FontStyle       string    `json:"fontStyle"`
	TextAlign       string    `json:"textAlign"`
	Opacity         float64   `json:"opacity"`
}

func NewDefaults() Defaults {
	return Defaults{
		FillColor:       DefaultFillColor,
		StrokeColor:     DefaultStrokeColor,
		StrokeWidth:     DefaultStrokeWidth,
		StrokeDashArray: []float64{},
		FontFamily:      DefaultFontFamily,
		FontSize:        DefaultFontSize,
		FontWeight:      DefaultFontWeight,
		FontStyle:       DefaultFontStyle,
		TextAlign:       DefaultTextAlign,
		Opacity:         DefaultOpacity,
	}
}

// Notice is a short user-facing message, shown as a toast.
type Notice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

const (
	NoticeInfo  = "info"
	NoticeError = "error"
)

type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }
