package validate

// ProfileInput holds the trimmed profile fields as they would be saved.
type ProfileInput struct {
	FirstName        string
	LastName         string
	Location         string
	Website          string
	GitHubUsername   string
	LinkedInUsername string
	TwitterUsername  string
}

// Profile checks the free-text profile fields against their column sizes.
func Profile(in ProfileInput) error {
	return check(
		rule{"first_name", in.FirstName, "max=50", "First name must be 50 characters or fewer"},
		rule{"last_name", in.LastName, "max=50", "Last name must be 50 characters or fewer"},
		rule{"location", in.Location, "max=100", "Location must be 100 characters or fewer"},
		rule{"website", in.Website, "max=200", "Website must be 200 characters or fewer"},
		rule{"github_username", in.GitHubUsername, "max=100", "GitHub username must be 100 characters or fewer"},
		rule{"linkedin_username", in.LinkedInUsername, "max=100", "LinkedIn username must be 100 characters or fewer"},
		rule{"twitter_username", in.TwitterUsername, "max=100", "Twitter username must be 100 characters or fewer"},
	)
}
