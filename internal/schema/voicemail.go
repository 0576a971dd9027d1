package schema

// Voicemail is the layout for voicemail transcription exports. The caller is
// the owner; the transcript becomes the initial request. Voicemail exports
// carry no pet name column, so pet_name falls back to "Unknown".
var Voicemail = Layout{
	Name:      "voicemail",
	Signature: []string{"caller_name", "caller_phone", "message_transcript"},
	Columns: map[string][]string{
		OwnerName:      {"caller_name", "owner_name", "name"},
		OwnerPhone:     {"caller_phone", "callback_number", "phone", "owner_phone"},
		OwnerEmail:     {"caller_email", "email", "owner_email"},
		PetName:        {"pet_name"},
		PetSpecies:     {"pet_type", "pet_species", "species"},
		PetDetails:     {"pet_details", "pet_description"},
		Breed:          {"breed", "pet_breed"},
		InitialRequest: {"message_transcript", "transcript", "message"},
		ServiceType:    {"service_type", "service_requested", "category"},
		Status:         {"status"},
		Notes:          {"notes"},
	},
	Defaults: map[string]string{
		PetName:    DefaultPetName,
		PetSpecies: DefaultSpecies,
		Status:     DefaultStatus,
	},
	NotesPrefix:      "Imported from voicemail received",
	TimestampColumns: []string{"received_at", "call_time", "timestamp"},
}
