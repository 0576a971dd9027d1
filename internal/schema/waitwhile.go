package schema

// Waitwhile is the layout for walk-in kiosk check-in logs.
var Waitwhile = Layout{
	Name:      "waitwhile",
	Signature: []string{"full_name", "reason_for_visit", "check_in_time"},
	Columns: map[string][]string{
		OwnerName:      {"full_name", "customer_name", "name", "owner_name"},
		OwnerPhone:     {"phone", "phone_number", "mobile", "owner_phone"},
		OwnerEmail:     {"email", "email_address", "owner_email"},
		PetName:        {"pet_name", "pet"},
		PetSpecies:     {"pet_type", "pet_species", "species"},
		PetDetails:     {"pet_details", "pet_description"},
		Breed:          {"breed", "pet_breed"},
		InitialRequest: {"reason_for_visit", "reason", "visit_reason"},
		ServiceType:    {"service_type", "service", "visit_type"},
		Status:         {"status"},
		Notes:          {"notes"},
	},
	Defaults: map[string]string{
		PetSpecies: DefaultSpecies,
		Status:     DefaultStatus,
	},
	NotesPrefix:      "Imported from walk-in check-in at",
	TimestampColumns: []string{"check_in_time", "checked_in_at", "timestamp"},
}
