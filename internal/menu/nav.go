package menu

import "baristabot/internal/wizard"

// navigation labels bypass list selection and always reach the router
var navigation = map[string]struct{}{
	BackToMain:      {},
	BackToInventory: {},
	BackToCustomers: {},
	BackToBonus:     {},
	BackToAdmin:     {},
	SearchCustomer:  {},
	NewSearch:       {},
	Exit:            {},
	StartCommand:    {},
}

// IsNavigation reports whether text is a global navigation token
func IsNavigation(text string) bool {
	_, ok := navigation[text]
	return ok
}

// WizardLabels are the control tokens every wizard honours
func WizardLabels() wizard.Labels {
	return wizard.Labels{
		Cancel: []string{Cancel, CancelCommand},
		Yes:    Yes,
		No:     No,
		Skip:   []string{Skip, SkipCommand},
	}
}

// SkipKeyboard is the keyboard of an optional step
func SkipKeyboard() [][]string {
	return [][]string{{Skip}, {Cancel}}
}
