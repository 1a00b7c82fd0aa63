// Package all imports every sample rule package to register it.
// Import this package with a blank identifier to enable the full sample
// catalog:
//
//	import _ "github.com/fortitude-lint/fortitude/internal/rules/all"
package all

import (
	// Import all rule packages to trigger their init() registration.
	_ "github.com/fortitude-lint/fortitude/internal/rules/hardcodedcredential"
	_ "github.com/fortitude-lint/fortitude/internal/rules/implicitnone"
	_ "github.com/fortitude-lint/fortitude/internal/rules/linetoolong"
	_ "github.com/fortitude-lint/fortitude/internal/rules/missingdefaultcase"
	_ "github.com/fortitude-lint/fortitude/internal/rules/missingintent"
	_ "github.com/fortitude-lint/fortitude/internal/rules/nonstandardfileextension"
	_ "github.com/fortitude-lint/fortitude/internal/rules/syntaxerror"
	_ "github.com/fortitude-lint/fortitude/internal/rules/trailingwhitespace"
)
