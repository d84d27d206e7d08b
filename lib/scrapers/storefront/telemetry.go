package storefront

import "go.opentelemetry.io/otel"

var tracer = otel.Tracer("scrapers/storefront")
