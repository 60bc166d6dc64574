package config

// licenserc JSON schema (draft-07). A document that fails validation is
// treated the same as a malformed file: built-in defaults apply.
const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "$id": "https://schemas.fulmenhq.dev/licensegate/licenserc/v1.0.0",
  "title": "licensegate configuration",
  "type": "object",
  "properties": {
    "allowedLicenses": {
      "type": "array",
      "items": { "type": "string" }
    },
    "excludedPackages": {
      "type": "array",
      "items": { "type": "string" }
    },
    "notes": {
      "type": "object",
      "additionalProperties": { "type": "string" }
    }
  },
  "additionalProperties": true
}`
