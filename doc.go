// Package ekdsend provides a Go client SDK for the EKD Digital messaging
// platform, covering transactional email, SMS and voice calls.
//
// Every operation has a blocking form that takes a context and a
// non-blocking *Async form returning a Future; both run through the same
// request engine with identical retry and error behavior.
//
// Basic usage:
//
//	client, err := ekdsend.New("ek_live_your_api_key")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	email, err := client.Emails.Send(ctx, ekdsend.SendEmailParams{
//	    From:    "hello@example.com",
//	    To:      []string{"user@example.com"},
//	    Subject: "Welcome",
//	    HTML:    "<p>Hi there</p>",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Sent:", email.ID)
//
// Non-blocking calls return immediately:
//
//	future := client.SMS.SendAsync(ctx, ekdsend.SendSMSParams{
//	    To:      "+15551234567",
//	    Message: "Your code is 1234",
//	})
//	sms, err := future.Wait(ctx)
package ekdsend
