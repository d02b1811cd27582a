package printing

import "go.uber.org/fx"

var Module = fx.Module("printing",
	fx.Provide(
		NewPDFRenderer,
		NewHTMLRenderer,
	),
)
