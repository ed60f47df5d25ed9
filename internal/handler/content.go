package handler

type feature struct {
	Title       string
	Description string
}

type testimonial struct {
	Name string
	Text string
}

type stat struct {
	Number string
	Label  string
}

type landing struct {
	Highlights   []string
	Testimonials []testimonial
	Features     []feature
	Benefits     []string
	Stats        []stat
}

var landingContent = landing{
	Highlights: []string{"Find local diners", "Send targeted offers", "Track results"},
	Testimonials: []testimonial{
		{Name: "Maria's Bistro", Text: "Increased our customer base by 40% in just 2 months!"},
		{Name: "Tony's Pizza", Text: "The targeted campaigns brought in exactly the customers we wanted."},
		{Name: "Green Leaf Café", Text: "So easy to use, and the AI suggestions are spot-on."},
	},
	Features: []feature{
		{Title: "Precision Targeting", Description: "Find customers who love your type of cuisine and dining experience. No more guesswork."},
		{Title: "AI-Powered Offers", Description: "Generate compelling offers that convert. Our AI knows what messages work best."},
		{Title: "Track Results", Description: "See exactly which campaigns drive customers through your doors."},
	},
	Benefits: []string{
		"Stop relying on expensive food delivery apps",
		"Build your own customer database",
		"Send targeted offers that actually work",
		"Track campaign performance in real-time",
		"Increase repeat visits with smart segmentation",
	},
	Stats: []stat{
		{Number: "500+", Label: "Restaurants Trust Us"},
		{Number: "50K+", Label: "Diners in Database"},
		{Number: "40%", Label: "Average Revenue Increase"},
		{Number: "2 Min", Label: "Setup Time"},
	},
}
