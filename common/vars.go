package common

// Version is overridden at build time with -ldflags "-X ...common.Version=...".
var Version = "dev"

// PackageName is used as the metrics namespace and default log service tag.
const PackageName = "secure_date_gateway"
