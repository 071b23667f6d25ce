// marketplace.go implements the "caremate marketplace" command family.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/caremate-dev/caremate/internal/log"
	"github.com/caremate-dev/caremate/internal/marketplace"
)

var (
	profileRate    float64
	profileYears   int
	profileSpecs   []string
	profileBio     string
	reviewRating   float64
	reviewComment  string
	contactMessage string
	contactTime    string
)

var marketplaceCmd = &cobra.Command{
	Use:   "marketplace",
	Short: "Browse and manage the caregiver marketplace",
	RunE:  runSearch,
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "List available caregivers",
	RunE:  runSearch,
}

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Show the highest-rated caregivers",
	RunE:  runTop,
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show your caregiver profile",
	RunE:  runProfileShow,
}

var profileCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create your caregiver profile",
	RunE:  runProfileCreate,
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update your caregiver profile",
	RunE:  runProfileUpdate,
}

var profileStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show reviews/rating/view counts",
	RunE:  runProfileStats,
}

var reviewCmd = &cobra.Command{
	Use:   "review <caregiver-id>",
	Short: "Review a caregiver",
	Args:  cobra.ExactArgs(1),
	RunE:  runReview,
}

var contactCmd = &cobra.Command{
	Use:   "contact <caregiver-id>",
	Short: "Send a contact request to a caregiver",
	Args:  cobra.ExactArgs(1),
	RunE:  runContact,
}

func init() {
	for _, c := range []*cobra.Command{profileCreateCmd, profileUpdateCmd} {
		c.Flags().Float64Var(&profileRate, "rate", 0, "Hourly rate")
		c.Flags().IntVar(&profileYears, "years", 0, "Years of experience")
		c.Flags().StringSliceVar(&profileSpecs, "specializations", nil, "Comma-separated specializations")
		c.Flags().StringVar(&profileBio, "bio", "", "Short bio")
	}
	reviewCmd.Flags().Float64Var(&reviewRating, "rating", 5, "Rating 1-5")
	reviewCmd.Flags().StringVar(&reviewComment, "comment", "", "Review text")
	contactCmd.Flags().StringVar(&contactMessage, "message", "", "Message to the caregiver")
	contactCmd.Flags().StringVar(&contactTime, "time", "", "Preferred time")

	profileCmd.AddCommand(profileCreateCmd)
	profileCmd.AddCommand(profileUpdateCmd)
	profileCmd.AddCommand(profileStatsCmd)
	marketplaceCmd.AddCommand(searchCmd)
	marketplaceCmd.AddCommand(topCmd)
	marketplaceCmd.AddCommand(profileCmd)
	marketplaceCmd.AddCommand(reviewCmd)
	marketplaceCmd.AddCommand(contactCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.requireRoute("Marketplace"); err != nil {
		return err
	}

	caregivers, err := app.Marketplace.FetchCaregivers(cmd.Context())
	if err != nil {
		return fmt.Errorf("%s", app.Marketplace.LastError())
	}

	printCaregivers(caregivers)
	return nil
}

func runTop(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.requireRoute("Marketplace"); err != nil {
		return err
	}

	if _, err := app.Marketplace.FetchCaregivers(cmd.Context()); err != nil {
		return fmt.Errorf("%s", app.Marketplace.LastError())
	}

	printCaregivers(app.Marketplace.TopCaregivers(app.Cfg.Client.TopCaregivers))
	return nil
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.requireRoute("CaregiverProfile"); err != nil {
		return err
	}

	profile, err := app.Marketplace.FetchProfile(cmd.Context())
	if err != nil {
		return fmt.Errorf("%s", app.Marketplace.LastError())
	}

	printProfile(profile)
	return nil
}

func runProfileCreate(cmd *cobra.Command, args []string) error {
	return upsertProfile(cmd, true)
}

func runProfileUpdate(cmd *cobra.Command, args []string) error {
	return upsertProfile(cmd, false)
}

func upsertProfile(cmd *cobra.Command, create bool) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.requireRoute("CaregiverProfile"); err != nil {
		return err
	}

	p := marketplace.Profile{
		HourlyRate:      profileRate,
		ExperienceYears: profileYears,
		Specializations: profileSpecs,
		Bio:             profileBio,
	}

	var saved *marketplace.Profile
	if create {
		saved, err = app.Marketplace.CreateProfile(cmd.Context(), p)
	} else {
		saved, err = app.Marketplace.UpdateProfile(cmd.Context(), p)
	}
	if err != nil {
		return fmt.Errorf("%s", app.Marketplace.LastError())
	}

	_ = app.Events.Append(log.LogEvent{Event: log.EventProfileUpdated, Resource: "marketplace"})
	printProfile(saved)
	if !saved.Complete() {
		fmt.Println("Profile is incomplete: rate, years, specializations and bio are all required before it is listed.")
	}
	return nil
}

func runProfileStats(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.requireRoute("CaregiverProfile"); err != nil {
		return err
	}

	stats, err := app.Marketplace.FetchStats(cmd.Context())
	if err != nil {
		return fmt.Errorf("%s", app.Marketplace.LastError())
	}

	fmt.Printf("Reviews: %d  Rating: %.1f  Views: %d\n",
		stats.TotalReviews, stats.AverageRating, stats.ProfileViews)
	return nil
}

func runReview(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.requireRoute("Marketplace"); err != nil {
		return err
	}

	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	review, err := app.Marketplace.AddReview(cmd.Context(), id, marketplace.ReviewRequest{
		Rating:  reviewRating,
		Comment: reviewComment,
	})
	if err != nil {
		return fmt.Errorf("%s", app.Marketplace.LastError())
	}

	fmt.Printf("Review posted (rating %.1f)\n", review.Rating)
	return nil
}

func runContact(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.requireRoute("Marketplace"); err != nil {
		return err
	}

	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	result, err := app.Marketplace.Contact(cmd.Context(), id, marketplace.ContactRequest{
		Message:       contactMessage,
		PreferredTime: contactTime,
	})
	if err != nil {
		return fmt.Errorf("%s", app.Marketplace.LastError())
	}

	fmt.Println(result.Message)
	return nil
}

func printCaregivers(list []marketplace.Caregiver) {
	if len(list) == 0 {
		fmt.Println("No caregivers found.")
		return
	}
	for _, c := range list {
		fmt.Printf("  %-5s  %-20s  $%.0f/hr  %d yrs  %.1f★  %s\n",
			c.ID, c.Name, c.HourlyRate, c.ExperienceYears, c.AverageRating,
			strings.Join(c.Specializations, ", "))
	}
}

func printProfile(p *marketplace.Profile) {
	fmt.Printf("Rate: $%.0f/hr\nExperience: %d years\nSpecializations: %s\nBio: %s\n",
		p.HourlyRate, p.ExperienceYears, strings.Join(p.Specializations, ", "), p.Bio)
}
