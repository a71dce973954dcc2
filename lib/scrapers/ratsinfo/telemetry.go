package ratsinfo

import "terminplaner-backend/lib/telemetry"

var tracer = telemetry.Tracer("terminplaner.lib.scrapers.ratsinfo")
