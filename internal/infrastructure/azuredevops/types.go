package azuredevops

// entitlementsResponse is the shape of the userentitlements listing.
// Depending on the API version the entries arrive under "members" or
// "value", so both are decoded.
type entitlementsResponse struct {
	Members []entitlement `json:"members"`
	Value   []entitlement `json:"value"`
}

func (r *entitlementsResponse) entries() []entitlement {
	if len(r.Members) > 0 {
		return r.Members
	}
	return r.Value
}

type entitlement struct {
	User entitlementUser `json:"user"`
}

type entitlementUser struct {
	DisplayName   string `json:"displayName"`
	Name          string `json:"name"`
	PrincipalName string `json:"principalName"`
	MailAddress   string `json:"mailAddress"`
}

// displayName returns the human-readable name of the entitled user,
// whichever field the API populated.
func (u *entitlementUser) displayName() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Name
}

// principal returns the sign-in identifier of the entitled user.
func (u *entitlementUser) principal() string {
	if u.PrincipalName != "" {
		return u.PrincipalName
	}
	return u.MailAddress
}
