package schema

// Manual is the layout for hand-built CSV/JSON files that already use (or
// closely follow) the unified column names.
var Manual = Layout{
	Name: "manual",
	Columns: map[string][]string{
		OwnerName:      {"owner_name", "name", "owner"},
		OwnerPhone:     {"owner_phone", "phone", "phone_number"},
		OwnerEmail:     {"owner_email", "email"},
		PetName:        {"pet_name", "pet"},
		PetSpecies:     {"pet_species", "species", "pet_type"},
		PetDetails:     {"pet_details", "details", "description"},
		Breed:          {"breed", "pet_breed"},
		InitialRequest: {"initial_request", "request", "reason"},
		ServiceType:    {"service_type", "service"},
		Status:         {"status"},
		Notes:          {"notes", "comments"},
	},
	Defaults: map[string]string{
		PetSpecies: DefaultSpecies,
		Status:     DefaultStatus,
	},
}
