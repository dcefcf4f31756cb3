// Package i18n resolves the request language for the admin sites and hands
// out message printers backed by the embedded catalogs.
package i18n
