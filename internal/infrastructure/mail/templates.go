package mail

// Minimal HTML bodies for the four transactional messages. Placeholders are
// substituted with strings.ReplaceAll before sending.

const verificationEmailTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Verify your email</h2>
  <p>Thanks for signing up. Enter this code to verify your email address:</p>
  <p style="font-size: 28px; font-weight: bold; letter-spacing: 4px;">{verificationCode}</p>
  <p>The code expires in 1 hour. If you didn't create an account, ignore this email.</p>
</body>
</html>`

const welcomeEmailTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <p>Thank you for signing up, {name}!</p>
  <p>Your email is verified and your account is ready to use.</p>
</body>
</html>`

const passwordResetRequestTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Password reset request</h2>
  <p>We received a request to reset your password. Click the link below to choose a new one:</p>
  <p><a href="{resetURL}">{resetURL}</a></p>
  <p>The link expires in 1 hour. If you didn't request this, ignore this email.</p>
</body>
</html>`

const passwordResetSuccessTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Password reset successful</h2>
  <p>Your password has been changed. If this wasn't you, contact support immediately.</p>
</body>
</html>`
