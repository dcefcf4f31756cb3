// Package site serves an admin surface over registered model resources.
//
// A Site owns a URL prefix, an index of its models, and the default
// changelist, add, change, and delete screens for each registered Resource.
// Resources describe their columns, sidebar filters, bulk actions, forms, and
// any extra per-model URLs; the site takes care of routing, localization,
// flash messages, and HTMX fragment rendering.
package site
