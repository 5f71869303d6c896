// Package servicedoc turns a worship-planning HTML export into a printable
// bulletin item list and structured slide data, and defines the services that
// store templates and render bulletin and slide documents.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, etree/).
package servicedoc
