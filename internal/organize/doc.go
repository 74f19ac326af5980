// Package organize uploads harvested Gmail attachments into a Google Drive
// folder hierarchy.
//
// Three layouts are supported: flat (everything under one folder), dated
// (year/month subfolders derived from each email's date) and categorized
// (date/category/subcategory subfolders derived from each filename).
// Uploads run strictly sequentially with monotonic progress reporting;
// individual failures are logged and skipped, never aborting the run.
// Folder ids are cached per (parent, name) for the duration of one run only.
package organize
