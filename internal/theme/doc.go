// Package theme provides CSS theming for the transient label window.
//
// Bundled themes are embedded; user themes in ~/.config/transientlabel/themes/
// override them by name. The label style from config is rendered to a second
// stylesheet that takes precedence over the theme.
package theme
