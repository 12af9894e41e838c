package schema

// Models returns every table model, in dependency order, for migrations
func Models() []interface{} {
	return []interface{}{
		&KeyValueStore{},
		&Workspace{},
		&ModuleRegistration{},
		&InitializedToken{},
		&Balance{},
		&Transfer{},
		&ThanksTokenBalance{},
		&ThanksTokenTransfer{},
	}
}
